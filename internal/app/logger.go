package app

import (
	"io"
	"log/slog"
)

// newLogger builds the run's logger from the --log-level and --log-format
// settings. Logs go to outW, normally stderr, so they never mix with the
// report on stdout. Run adds the run_id attribute and hands the logger down
// through ctxlog. The global logger is left untouched.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(outW, handlerOpts))
}
