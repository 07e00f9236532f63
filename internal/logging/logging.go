// Package logging configures the process-wide logrus logger from [log] settings.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/tessro/reel/internal/config"
)

// Setup points the standard logger at the configured file and level. Without a
// file, output is discarded when quiet is set (the terminal UI owns the
// screen) and goes to stderr otherwise. The returned closer releases the file.
func Setup(cfg config.LogConfig, quiet bool) (io.Closer, error) {
	logger := logrus.StandardLogger()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File == "" {
		if quiet {
			logger.SetOutput(io.Discard)
		} else {
			logger.SetOutput(os.Stderr)
		}
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return f, nil
}

// For returns a logger tagged with a component name.
func For(component string) logrus.FieldLogger {
	return logrus.StandardLogger().WithField("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
