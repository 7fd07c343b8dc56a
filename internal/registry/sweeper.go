package registry

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically destroys expired rooms. Sweeps run to
// completion on a single goroutine, so two sweeps never overlap.
type Sweeper struct {
	registry RoomRegistry
	interval time.Duration
	maxIdle  time.Duration
	log      *log.Logger
}

func NewSweeper(r RoomRegistry, interval, maxIdle time.Duration, logger *log.Logger) *Sweeper {
	return &Sweeper{
		registry: r,
		interval: interval,
		maxIdle:  maxIdle,
		log:      logger,
	}
}

// Run blocks until ctx is canceled. A failed sweep is logged and never
// cancels the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Printf("sweeper started, interval %s, max idle %s", s.interval, s.maxIdle)
	for {
		select {
		case <-ctx.Done():
			s.log.Println("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Printf("sweep panic: %v", err)
		}
	}()

	if n := s.registry.CleanupExpiredRooms(s.maxIdle); n > 0 {
		s.log.Printf("sweep removed %d rooms", n)
	}
}
