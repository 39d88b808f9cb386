package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"tg_garant/internal/application"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{ //nolint:exhaustruct
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}
}
