// Package logging configures the diagnostic logger. Test output itself goes
// through the terminal writer; this logger only carries debug information
// and is written to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup builds a logger. With debug set, debug-level records are kept;
// structured switches from text to JSON records.
func Setup(debug, structured bool) *slog.Logger {
	return New(os.Stderr, debug, structured)
}

// New builds a logger writing to w
func New(w io.Writer, debug, structured bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if structured {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return New(io.Discard, false, false)
}
