package logging

import (
	"fmt"
	"io"
	"log/slog"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatJSON = "json"
	FormatText = "text"
)

// New builds a Logger for the requested backend. Slog writes to w; zap always
// writes to stdout.
func New(backend, level, format string, w io.Writer) (Logger, error) {
	switch backend {
	case "", BackendSlog:
		opts := &slog.HandlerOptions{Level: slogLevel(level)}
		var h slog.Handler
		if format == FormatText {
			h = slog.NewTextHandler(w, opts)
		} else {
			h = slog.NewJSONHandler(w, opts)
		}
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		z, err := buildZap(level, format)
		if err != nil {
			return nil, fmt.Errorf("init zap: %w", err)
		}
		return NewZapLogger(z), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

func slogLevel(level string) slog.Level {
	switch level {
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
