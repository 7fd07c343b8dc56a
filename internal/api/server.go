package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"

	"github.com/mcanfield/huddle/internal/config"
	"github.com/mcanfield/huddle/internal/registry"
	"github.com/mcanfield/huddle/internal/server"
)

// HuddleApp is the thin HTTP surface around the chat server: room
// creation, existence checks, aggregate stats and the websocket
// upgrade. It holds no protocol state of its own.
type HuddleApp struct {
	log                 *log.Logger
	registry            registry.RoomRegistry
	cs                  *server.ChatServer
	mux                 *http.Server
	baseURL             string
	allowedOrigins      []string
	defaultRoomCapacity int
	maxRoomCapacity     int
}

func NewHuddleApp(mux *http.ServeMux, logger *log.Logger, cs *server.ChatServer, reg registry.RoomRegistry, cfg *config.Config) *HuddleApp {
	s := &HuddleApp{
		log:                 logger,
		registry:            reg,
		cs:                  cs,
		baseURL:             cfg.BaseURL,
		allowedOrigins:      cfg.AllowedOrigins,
		defaultRoomCapacity: cfg.DefaultRoomCapacity,
		maxRoomCapacity:     cfg.MaxRoomCapacity,
	}

	mux.HandleFunc("POST /api/rooms", s.createRoom)
	mux.HandleFunc("GET /api/rooms", s.getRoom)
	mux.HandleFunc("GET /api/stats", s.getStats)
	mux.HandleFunc("GET /ws", s.serveWs)

	limiter := NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = limiter.Limit(h)
	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *HuddleApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *HuddleApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
