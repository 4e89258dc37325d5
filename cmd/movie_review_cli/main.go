package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/movie_review_app/internal/client/cli"
	"github.com/SscSPs/movie_review_app/internal/client/config"
	"github.com/SscSPs/movie_review_app/internal/client/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger, os.Args[1:])
	stop()
	if err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	storage, err := session.NewFileStorage(cfg.TokenFile)
	if err != nil {
		return err
	}
	logger.Debug("Using token file", slog.String("path", storage.Path()))

	app, err := cli.NewApp(cfg, storage, os.Stdin, os.Stdout, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx, args)
}
