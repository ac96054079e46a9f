package logger

import (
	"log/slog"
	"os"
)

const defaultLevel = slog.LevelInfo

// New returns the application logger: JSON records on stdout, info level.
func New() *slog.Logger {
	opts := &slog.HandlerOptions{Level: defaultLevel}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
