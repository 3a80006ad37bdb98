package cli

import (
	"io"
	"log/slog"
)

// newLogger returns the diagnostic logger. Progress goes to stdout through
// the reporter; logs stay on stderr so they never interleave with frames.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
