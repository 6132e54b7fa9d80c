// Package logging builds the process-wide structured logger every
// component derives its tagged sub-logger from.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a stdout text-handler logger at the configured verbosity.
func New(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

// parseLevel maps the config's level string to a slog level. Unknown
// values fall back to info, so a typo cannot flood a long fetch run with
// per-request debug lines.
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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
