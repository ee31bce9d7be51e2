// Package logger builds slog loggers with a consistent shape across the
// service: JSON in production, text for local development, plus shared
// attribute helpers so log fields keep the same keys everywhere.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config controls logger construction, loaded from environment.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`   // debug, info, warn, error
	Format string `env:"LOG_FORMAT" envDefault:"json"`  // json or text
	Output io.Writer
}

// New builds a *slog.Logger for the given service name.
func New(service string, cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}

	return slog.New(h).With(slog.String("service", service))
}

// Noop returns a logger that discards everything. Services use it as their
// default so logging stays opt-in.
func Noop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
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

// Error wraps an error as a slog attribute with the conventional key.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// UserID tags a log record with the acting user.
func UserID(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}

// Component tags a log record with the emitting component.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
