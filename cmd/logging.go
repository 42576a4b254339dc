package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/marcus/docview/internal/config"
)

// setupLogging installs the default slog logger. The terminal belongs to the
// viewer, so logs only go to cfg.LogFile; without one they are dropped.
func setupLogging(cfg *config.Config) (func(), error) {
	if cfg.LogFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return func() { f.Close() }, nil
}
