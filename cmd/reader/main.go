package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newsstand-hq/newsstand-reader/internal/app"
	"github.com/newsstand-hq/newsstand-reader/internal/config"
	"github.com/newsstand-hq/newsstand-reader/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reader start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.LogLevel)
	defer log.Close()

	log.InfoObj("reader starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader, err := app.NewReader(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize reader", "error", err)
		return err
	}

	if err := reader.Run(ctx); err != nil {
		return fmt.Errorf("reader run: %w", err)
	}

	return nil
}
