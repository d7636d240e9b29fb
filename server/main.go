package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := LoadConfig()
	SetupLogging(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	clientDir := flag.String("client", "", "Path to client directory (default: ../client)")
	flag.Parse()

	if *clientDir == "" {
		*clientDir = cfg.ClientDir
		exe, _ := os.Executable()
		candidate := filepath.Join(filepath.Dir(exe), "..", "client")
		if _, err := os.Stat(candidate); err == nil {
			*clientDir = candidate
		}
	}
	if _, err := os.Stat(*clientDir); err != nil {
		log.Warn().Str("dir", *clientDir).Msg("client directory not found, static files will 404")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	game := NewGame(cfg, componentLogger("game"))
	go game.Run(ctx)

	hub := NewHub(cfg, game, componentLogger("hub"))
	go hub.Run(ctx)

	server := &http.Server{Addr: *addr, Handler: SetupRoutes(hub, game, *clientDir)}

	go func() {
		log.Info().Str("addr", *addr).Str("client", *clientDir).
			Int("team_size", cfg.TeamSize).Bool("auto_start", cfg.AutoStart).Msg("server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
		server.Close()
	}
}
