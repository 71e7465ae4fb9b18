package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a thin wrapper over slog so call sites keep the key/value style
// log.Info("msg", "key", value).
type Logger struct {
	*slog.Logger
}

func NewLogger(level string) *Logger {
	return New(os.Stderr, level, "text")
}

// New builds a logger writing to w. Format is "json" or "text".
func New(w io.Writer, level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// With returns a child logger that always carries the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
