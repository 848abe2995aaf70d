package app

import (
	"io"
	"log/slog"
)

// newLogger creates the App's own slog.Logger. It never touches the global
// logger, so several Apps can run side by side in tests. Unknown levels fall
// back to info; debug also records the source position.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
