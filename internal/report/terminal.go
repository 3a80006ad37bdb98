package report

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/roach88/yololtest/internal/harness"
)

// Glyphs shown between the brackets of each entry.
const (
	GlyphPending = " "
	GlyphPass    = "✓"
	GlyphFail    = "✗"
)

// messageIndent prefixes every line of a failure message.
const messageIndent = "    "

// ANSI palette indices.
const (
	colorRed   = "1"
	colorGreen = "2"
)

// Terminal renders harness entries as a checklist.
type Terminal struct {
	w     io.Writer
	out   *termenv.Output
	clear bool
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithProfile forces a colour profile instead of detecting it from the
// environment. termenv.Ascii disables colour entirely.
func WithProfile(p termenv.Profile) Option {
	return func(t *Terminal) {
		t.out = termenv.NewOutput(t.w, termenv.WithProfile(p))
	}
}

// WithClear overrides whether each frame clears the screen first.
func WithClear(clear bool) Option {
	return func(t *Terminal) {
		t.clear = clear
	}
}

// NewTerminal creates a Terminal writing to w. The screen is cleared
// between frames only when w is a terminal.
func NewTerminal(w io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		w:     w,
		out:   termenv.NewOutput(w),
		clear: IsTerminal(w),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render implements harness.Renderer.
func (t *Terminal) Render(entries []harness.Entry) error {
	var buf bytes.Buffer
	for _, e := range entries {
		t.writeEntry(&buf, e)
	}

	if t.clear {
		t.out.ClearScreen()
	}
	_, err := t.out.Write(buf.Bytes())
	return err
}

func (t *Terminal) writeEntry(buf *bytes.Buffer, e harness.Entry) {
	glyph, color := GlyphPending, ""
	if !e.Pending() {
		if e.Result.Success {
			glyph, color = GlyphPass, colorGreen
		} else {
			glyph, color = GlyphFail, colorRed
		}
	}

	buf.WriteString(t.paint(" - ["+glyph+"] "+e.Test.Path, color))
	buf.WriteByte('\n')

	if e.Pending() || e.Result.Success {
		return
	}
	for _, msg := range strings.Split(e.Result.Message, "\n") {
		if msg != "" {
			buf.WriteString(t.paint(messageIndent+msg, color))
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
}

// paint applies the foreground colour, or returns s unchanged for "".
func (t *Terminal) paint(s, color string) string {
	if color == "" {
		return s
	}
	return t.out.String(s).Foreground(t.out.Color(color)).String()
}
