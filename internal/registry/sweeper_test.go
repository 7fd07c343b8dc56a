package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcanfield/huddle/internal/testutil"
)

// countingRegistry records cleanup calls without mock plumbing.
type countingRegistry struct {
	Registry
	mu     sync.Mutex
	calls  int
	panics bool
}

func (c *countingRegistry) CleanupExpiredRooms(maxIdle time.Duration) int {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.panics {
		panic("sweep failure")
	}
	return 0
}

func (c *countingRegistry) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestSweeper_sweepsOnTick(t *testing.T) {
	reg := &countingRegistry{}
	s := NewSweeper(reg, 10*time.Millisecond, time.Hour, testutil.TestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool {
		return reg.callCount() >= 2
	}, time.Second, 5*time.Millisecond, "expected at least two sweeps")
}

func TestSweeper_stopsOnCancel(t *testing.T) {
	reg := &countingRegistry{}
	s := NewSweeper(reg, 5*time.Millisecond, time.Hour, testutil.TestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout: sweeper did not stop after cancel")
	}
}

func TestSweeper_panicDoesNotStopNextTick(t *testing.T) {
	reg := &countingRegistry{panics: true}
	s := NewSweeper(reg, 10*time.Millisecond, time.Hour, testutil.TestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	assert.Eventually(t, func() bool {
		return reg.callCount() >= 2
	}, time.Second, 5*time.Millisecond, "expected sweeps to continue after a panic")
}

func TestSweeper_removesExpiredRooms(t *testing.T) {
	r := NewRegistry(testutil.TestLogger(t))
	r.CreateRoom(3)
	r.CreateRoom(3)

	s := NewSweeper(r, 10*time.Millisecond, time.Hour, testutil.TestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	assert.Eventually(t, func() bool {
		return r.Stats().TotalRooms == 0
	}, time.Second, 5*time.Millisecond, "expected empty rooms to be swept")
}
