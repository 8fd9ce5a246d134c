// Package log configures the process-wide slog default.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var once sync.Once

// Init sets the default logger. Repeated calls are no-ops. Output goes to
// stderr so the text REPL keeps stdout to itself; set JARVIS_LOG_FORMAT=json
// for machine-readable lines.
func Init(level string) {
	once.Do(func() {
		opts := &slog.HandlerOptions{Level: parseLevel(level)}

		var h slog.Handler
		if strings.EqualFold(os.Getenv("JARVIS_LOG_FORMAT"), "json") {
			h = slog.NewJSONHandler(os.Stderr, opts)
		} else {
			h = slog.NewTextHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(h))
	})
}

// parseLevel maps a level name to its slog level; unknown names mean info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
