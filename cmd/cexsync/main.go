// Command cexsync runs the cross-venue coin identity resolver. It reads the
// TOML configuration, wires venue adapters, cache, store and blob storage,
// and runs the configured mode until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cexsync/cexsync/internal/app"
	"github.com/cexsync/cexsync/internal/config"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Bootstrap logger at info until the configured level is known.
	setLogger(slog.LevelInfo)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := setLogger(parseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Info("cexsync starting",
		slog.String("mode", cfg.Mode),
		slog.String("config", configPath),
	)

	application := app.New(cfg, logger)
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = application.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("cexsync stopped")
	return nil
}

func setLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
