package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	discordsync "github.com/magabrotheeeer/trader-hub/internal/app/discord-sync"
	"github.com/magabrotheeeer/trader-hub/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting discord-sync worker", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := discordsync.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize discord-sync worker", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("discord-sync worker stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("discord-sync worker stopped gracefully")
}
