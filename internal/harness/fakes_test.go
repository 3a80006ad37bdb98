package harness

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// recordingRenderer captures every frame passed to Render.
type recordingRenderer struct {
	// err, when set, is returned from every Render call.
	err error

	mu     sync.Mutex
	frames [][]Entry
}

func (r *recordingRenderer) Render(entries []Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	frame := make([]Entry, len(entries))
	copy(frame, entries)
	r.frames = append(r.frames, frame)
	return r.err
}

func (r *recordingRenderer) Frames() [][]Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]Entry(nil), r.frames...)
}

// recordingSink captures entries passed to Record, keyed by seq.
type recordingSink struct {
	err error

	mu      sync.Mutex
	entries map[int]Entry
}

func (s *recordingSink) Record(_ context.Context, seq int, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[int]Entry)
	}
	s.entries[seq] = entry
	return s.err
}

func (s *recordingSink) Entries() map[int]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// formatEntries renders entries one per line for golden comparison. Only
// the base name of each test is kept so the output does not depend on the
// working directory.
//
//	name.yolol: pass, 2 ticks
//	name.yolol: OUTPUT_FAILURE, 4 ticks, "counted to 3"
//	name.yolol: pending
func formatEntries(entries []Entry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		name := filepath.Base(e.Test.Path)
		switch {
		case e.Pending():
			fmt.Fprintf(&buf, "%s: pending\n", name)
		case e.Result.Success:
			fmt.Fprintf(&buf, "%s: pass, %d ticks\n", name, e.Result.Ticks)
		default:
			fmt.Fprintf(&buf, "%s: %s, %d ticks, %q\n", name, e.Result.Kind, e.Result.Ticks, e.Result.Message)
		}
	}
	return buf.Bytes()
}

// assertGoldenEntries compares entries against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func assertGoldenEntries(t *testing.T, name string, entries []Entry) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, formatEntries(entries))
}
