package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"heatwatch/internal/app"
	"heatwatch/internal/config"
	"heatwatch/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger, closeLog := logging.NewWithFile(cfg.Logging.Level, cfg.Logging.File)
	defer closeLog()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application startup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
