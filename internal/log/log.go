package log

import (
	"log/slog"
	"os"
)

// NewLogger returns the process-wide structured logger. JSON output so
// log collectors can index the key/value pairs.
func NewLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}
