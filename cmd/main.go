package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"iris_api/internal/application"
	"iris_api/internal/config"
	"iris_api/pkg/contextx"
	"iris_api/pkg/logx"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))

		return 1
	}

	log, closer, err := logx.NewLogger(logx.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		slog.Error("logx.NewLogger", logx.Error(err))

		return 1
	}
	defer closer.Close()

	log = log.With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err = application.Run(ctx, cfg); err != nil {
		log.Error("application failed", logx.Error(err))

		return 1
	}

	log.Info("application stopped")

	return 0
}
