package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Deba1597/backendProject/internal/app"
	"github.com/Deba1597/backendProject/internal/config"
	"github.com/Deba1597/backendProject/internal/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("backend-api", cfg.LogLevel)
	log.Info("starting backend service",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("storage_backend", cfg.StorageBackend),
	)

	application, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("run application: %w", err)
	}

	log.Info("backend service stopped")
	return nil
}
