package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"synergy/internal/ai"
	"synergy/internal/app"
	"synergy/internal/config"
	"synergy/internal/domain"
	httpTransport "synergy/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting synergy game server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// AI suggestion service client
	suggester := ai.New(cfg.AI.BaseURL, cfg.AI.Timeout, ai.Options{
		Beta:  cfg.AI.Beta,
		Gamma: cfg.AI.Gamma,
		TopK:  cfg.AI.TopK,
	})

	// Surface an unreachable suggestion service early; rooms still work
	// through the fallback word pool
	healthCtx, healthCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := suggester.Health(healthCtx); err != nil {
		logger.Warn("suggestion service unreachable, AI rooms will use fallback words",
			"baseURL", cfg.AI.BaseURL, "error", err)
	}
	healthCancel()

	// Create room hub
	settings := domain.Settings{
		RoundDuration: cfg.Game.RoundDuration,
		RevealPause:   cfg.Game.RevealPause,
		IdleTimeout:   cfg.Game.IdleTimeout,
	}
	hub := app.NewRoomHub(settings, cfg.Game.RoomCodeLength, suggester, logger)
	defer hub.Close()

	// Create HTTP server
	server := httpTransport.NewServer(cfg, hub, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
