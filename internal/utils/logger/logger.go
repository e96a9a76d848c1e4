package logger

import (
	"os"

	"golang.org/x/exp/slog"

	"finmap/internal/app/server/config"
)

// New builds the process logger for the given environment: pretty text
// at debug level locally, JSON at debug level in dev, JSON at info
// level everywhere else.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return setupPrettySlog()
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
}

// NewLogger is kept for call sites that predate New.
func NewLogger(env string) *slog.Logger {
	return New(env)
}

func setupPrettySlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
