package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/adapter"
	"github.com/urfave/cli/v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting pulsemovies", "version", Version)

	runner, err := NewRunner(cfg, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	app := &cli.Command{
		Name:     "pulsemovies",
		Usage:    "Local-first watchlist and continue-watching sync engine",
		Version:  Version,
		Commands: runner.register(),
	}

	return app.Run(context.Background(), os.Args)
}
