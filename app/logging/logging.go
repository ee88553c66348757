// Package logging builds the structured loggers used by the server and the
// client.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// DebugEnabled returns true if the named environment variable is set to anything
func DebugEnabled(envVar string) bool {
	return os.Getenv(envVar) != ""
}

// New returns a text logger writing to w, at debug level when debug is set
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
