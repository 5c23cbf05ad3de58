package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/perfgauge/perfgauge/config"
)

// New builds a logrus logger from configuration and returns it with a
// cleanup function closing any open log file
func New(c *config.Logger) (*logrus.Logger, func(), error) {
	log := logrus.New()
	cleanup := func() {}

	if c == nil {
		log.SetFormatter(&logrus.JSONFormatter{})
		return log, cleanup, nil
	}

	if c.Level != "" {
		level, err := logrus.ParseLevel(c.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		log.SetLevel(level)
	}

	switch c.Format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{})
	default:
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	switch c.Output {
	case "stderr":
		log.SetOutput(os.Stderr)
	case "file":
		if c.OutputFile == "" {
			return nil, nil, fmt.Errorf("log output is file but output_file is empty")
		}
		if err := os.MkdirAll(filepath.Dir(c.OutputFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(c.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(f)
		cleanup = func() { _ = f.Close() }
	default:
		log.SetOutput(os.Stdout)
	}

	return log, cleanup, nil
}
