// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs the process-wide logger. Output goes to the first non-nil
// writer in w, else stderr; format "json" selects JSON lines, anything else
// key=value text.
func Init(level slog.Level, format string, w ...io.Writer) {
	out := io.Writer(os.Stderr)
	for _, cand := range w {
		if cand != nil {
			out = cand
			break
		}
	}
	slog.SetDefault(slog.New(handlerFor(format, out, level)))
}

func handlerFor(format string, out io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// New tags the default logger with component=name.
func New(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", s)
}

// ValidFormat reports whether format is accepted by Init.
func ValidFormat(format string) bool {
	return format == "text" || format == "json"
}
