// Package logging owns the diagnostics channel. Nothing in tidyjson fails
// loudly on bad input; instead it reports what it recovered from here.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a diagnostics logger
type Options struct {
	// Output receives log records when File is empty. Defaults to stderr.
	Output io.Writer
	// Debug lowers the level from Warn to Debug
	Debug bool
	// File, when set, sends records to a size-rotated log file instead
	File string
	// MaxSizeMB is the rotation threshold for File (default 10)
	MaxSizeMB int
}

var current atomic.Pointer[slog.Logger]

// New builds a text logger. The returned close function releases the log
// file, if any, and is safe to call more than once.
func New(opts Options) (*slog.Logger, func() error) {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	closer := func() error { return nil }
	if opts.File != "" {
		size := opts.MaxSizeMB
		if size <= 0 {
			size = 10
		}
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    size,
			MaxBackups: 3,
		}
		out = rotated
		closer = rotated.Close
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer
}

// Default returns the process-wide diagnostics logger
func Default() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	l, _ := New(Options{})
	current.CompareAndSwap(nil, l)
	return current.Load()
}

// SetDefault replaces the process-wide logger. nil is ignored.
func SetDefault(l *slog.Logger) {
	if l == nil {
		return
	}
	current.Store(l)
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
