package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/roach88/yololtest/internal/yolol"
)

// Default limits, matching a standard Yolol chip.
const (
	DefaultMaxLines        = 20
	DefaultMaxStringLength = 1024
	DefaultMaxTicks        = 1048576
)

// Options configure how each test is compiled and driven.
type Options struct {
	MaxLines        int
	MaxStringLength int
	MaxTicks        int64
}

// DefaultOptions returns the default limits.
func DefaultOptions() Options {
	return Options{
		MaxLines:        DefaultMaxLines,
		MaxStringLength: DefaultMaxStringLength,
		MaxTicks:        DefaultMaxTicks,
	}
}

// Renderer draws the full list of tests. It is called with the complete,
// cumulative list every time, never with a delta.
type Renderer interface {
	Render(entries []Entry) error
}

// Recorder receives each completed test. seq is the 0-based position of the
// test in discovery order.
type Recorder interface {
	Record(ctx context.Context, seq int, entry Entry) error
}

// Runner processes tests sequentially and reports progress.
type Runner struct {
	opts     Options
	renderer Renderer
	recorder Recorder
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRecorder registers a recorder for completed tests.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// NewRunner creates a Runner that renders to renderer.
func NewRunner(opts Options, renderer Renderer, options ...RunnerOption) *Runner {
	r := &Runner{
		opts:     opts,
		renderer: renderer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Run executes tests in order and returns the final entries.
//
// Test failures never abort the run. It stops early only when progress can
// no longer be rendered or ctx is cancelled; cancellation is checked
// between tests, never inside one.
func (r *Runner) Run(ctx context.Context, tests []TestCase) ([]Entry, error) {
	entries := make([]Entry, len(tests))
	for i, tc := range tests {
		entries[i] = Entry{Test: tc}
	}

	r.logger.Info("tests discovered", "count", len(tests))
	if err := r.render(entries); err != nil {
		return entries, err
	}

	for i, tc := range tests {
		if err := ctx.Err(); err != nil {
			return entries, fmt.Errorf("run interrupted: %w", err)
		}
		r.logger.Debug("running test", "test", tc.Path, "seq", i)

		result := r.RunTest(tc)
		entries[i] = Entry{Test: tc, Result: &result}

		r.logger.Debug("test finished",
			"test", tc.Path,
			"success", result.Success,
			"kind", string(result.Kind),
			"ticks", result.Ticks,
		)

		if r.recorder != nil {
			if err := r.recorder.Record(ctx, i, entries[i]); err != nil {
				r.logger.Warn("failed to record result", "test", tc.Path, "error", err)
			}
		}

		if err := r.render(entries); err != nil {
			return entries, err
		}
	}

	return entries, nil
}

// RunTest loads, parses, compiles and drives a single test.
func (r *Runner) RunTest(tc TestCase) Result {
	source, err := loadSource(tc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Fail(KindFileNotFound, FileNotFoundMessage, 0)
		}
		return Fail(KindFileNotFound, err.Error(), 0)
	}

	script, err := yolol.Parse(source)
	if err != nil {
		return Fail(KindParseError, err.Error(), 0)
	}

	externals := yolol.NewExternalsMap()
	program, err := compile(script, externals, yolol.Limits{
		MaxLines:        r.opts.MaxLines,
		MaxStringLength: r.opts.MaxStringLength,
		ChangeDetection: true,
	})
	if err != nil {
		if !yolol.IsCompileError(err) {
			r.logger.Error("compiler failed", "test", tc.Path, "error", err)
		}
		return Fail(KindCompileError, err.Error(), 0)
	}

	return Drive(program, externals, OutputName, r.opts.MaxTicks)
}

func (r *Runner) render(entries []Entry) error {
	snapshot := make([]Entry, len(entries))
	copy(snapshot, entries)
	if err := r.renderer.Render(snapshot); err != nil {
		return fmt.Errorf("failed to render progress: %w", err)
	}
	return nil
}

// compile converts a compiler panic into an error.
func compile(script *yolol.Script, externals *yolol.ExternalsMap, limits yolol.Limits) (prog *yolol.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compiler panicked: %v", r)
		}
	}()
	return yolol.Compile(script, externals, limits)
}
