// Package logger holds the structured logger shared by every engine package.
// By default the engine is silent; call SetLogger to route records to a handler.
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
)

// nopHandler discards all records. Enabled returns false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the engine and all of its sub-packages.
// Passing nil restores the silent default. Safe for concurrent use.
//
// Log levels used by the engine:
//   - [slog.LevelDebug]: per-frame diagnostics (truncated lights, buffer reallocation)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, scene disposed)
//   - [slog.LevelWarn]: recoverable issues
//   - [slog.LevelError]: render failures surfaced by the frame driver
//
// Parameters:
//   - l: the logger to install, or nil
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger. Safe for concurrent use.
//
// Returns:
//   - *slog.Logger: the active logger, never nil
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// ParseLevel maps a config level name ("debug", "info", "warn", "error") to a slog.Level.
// Unknown names map to info.
func ParseLevel(name string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewHandler returns a text handler when f is a terminal and a JSON handler otherwise, so piped
// editor logs stay machine readable.
//
// Parameters:
//   - f: the destination, usually os.Stderr
//   - level: the minimum level
//
// Returns:
//   - slog.Handler: the handler
func NewHandler(f *os.File, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return slog.NewTextHandler(f, opts)
	}
	return slog.NewJSONHandler(f, opts)
}
