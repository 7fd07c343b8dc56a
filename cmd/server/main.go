package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcanfield/huddle/internal/api"
	"github.com/mcanfield/huddle/internal/config"
	"github.com/mcanfield/huddle/internal/registry"
	"github.com/mcanfield/huddle/internal/server"
	"github.com/mcanfield/huddle/internal/stats"
)

func main() {
	logger := log.New(os.Stderr, "[huddle] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config:", err)
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	reg := registry.NewRegistry(logger)
	chatServer := server.NewChatServer(logger, reg, statsUpdater)
	srv := api.NewHuddleApp(mux, logger, chatServer, reg, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	sweeperCtx, cancelSweeper := context.WithCancel(context.Background())
	defer cancelSweeper()

	sweeper := registry.NewSweeper(reg, cfg.SweepInterval, cfg.RoomExpiry, logger)
	go sweeper.Run(sweeperCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	cancelSweeper()

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	chatServer.Shutdown()

	logger.Println("shutdown complete")
}
