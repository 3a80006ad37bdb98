package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/yololtest/internal/config"
	"github.com/roach88/yololtest/internal/harness"
	"github.com/roach88/yololtest/internal/report"
	"github.com/roach88/yololtest/internal/store"
)

// RootOptions holds the flags of the test run.
type RootOptions struct {
	Verbose         bool
	Dir             string
	Config          string
	Record          string
	MaxLines        int
	MaxStringLength int
	MaxTicks        int64
}

// NewRootCommand creates the yololtest command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "yololtest [flags] [files...]",
		Short: "Run Yolol test scripts",
		Long: `Run Yolol test scripts and report a live checklist of results.

A test passes when it sets :output to "ok". Any other string is reported as
the failure message. Tests that never reference :output, fail to parse or
compile, or run out of ticks while :output is still a number also fail.

Without file arguments every *.yolol file directly inside --dir is run, in
name order. Limits are read from yololtest.yaml, yololtest.yml or
yololtest.toml in --dir when present; flags set on the command line win.

Exit codes:
  0 - All tests ran (whether they passed or not)
  1 - The run could not complete
  2 - Command error (invalid flags or config, missing directory)

Examples:
  yololtest
  yololtest -d ./tests --max-ticks 5000
  yololtest tests/sort.yolol tests/math.yolol
  yololtest --record history.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHarness(opts, args, cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")
	cmd.Flags().StringVarP(&opts.Dir, "dir", "d", ".", "directory containing test scripts")
	cmd.Flags().StringVar(&opts.Config, "config", "", "config file (default: yololtest.{yaml,yml,toml} in --dir)")
	cmd.Flags().StringVar(&opts.Record, "record", "", "append results to a SQLite history database")
	cmd.Flags().IntVar(&opts.MaxLines, "max-lines", harness.DefaultMaxLines, "maximum lines per script")
	cmd.Flags().IntVar(&opts.MaxStringLength, "max-string-length", harness.DefaultMaxStringLength, "maximum length of string values")
	cmd.Flags().Int64Var(&opts.MaxTicks, "max-ticks", harness.DefaultMaxTicks, "tick budget per test")

	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// flagLayer returns the flags the operator set explicitly. Defaults are
// left unset so that a config file can override them.
func flagLayer(opts *RootOptions, cmd *cobra.Command) config.Layer {
	var layer config.Layer
	flags := cmd.Flags()
	if flags.Changed("max-lines") {
		layer.MaxLines = &opts.MaxLines
	}
	if flags.Changed("max-string-length") {
		layer.MaxStringLength = &opts.MaxStringLength
	}
	if flags.Changed("max-ticks") {
		layer.MaxTicks = &opts.MaxTicks
	}
	return layer
}

func runHarness(opts *RootOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	resolved, err := config.Resolve(opts.Dir, opts.Config, flagLayer(opts, cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if resolved.Source != "" {
		logger.Debug("config loaded", "path", resolved.Source)
	}
	logger.Debug("limits",
		"max_lines", resolved.Options.MaxLines,
		"max_string_length", resolved.Options.MaxStringLength,
		"max_ticks", resolved.Options.MaxTicks,
	)

	var tests []harness.TestCase
	// scanned is the directory the run covers, as recorded in history.
	scanned := opts.Dir
	if len(args) > 0 {
		tests = harness.FromPaths(args)
		scanned = commonDir(args)
	} else {
		if info, err := os.Stat(opts.Dir); err != nil || !info.IsDir() {
			return NewExitError(ExitCommandError, fmt.Sprintf("test directory not found: %s", opts.Dir))
		}
		tests, err = harness.Discover(opts.Dir)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to discover tests", err)
		}
	}

	runnerOpts := []harness.RunnerOption{harness.WithLogger(logger)}
	if opts.Record != "" {
		st, err := store.Open(opts.Record)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer st.Close()

		run, err := st.BeginRun(ctx, scanned, resolved.Options, len(tests))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		logger.Debug("recording run", "run_id", run.ID, "db", opts.Record)
		runnerOpts = append(runnerOpts, harness.WithRecorder(st.Recorder(run)))
	}

	renderer := report.NewTerminal(cmd.OutOrStdout())
	runner := harness.NewRunner(resolved.Options, renderer, runnerOpts...)

	entries, err := runner.Run(ctx, tests)
	if err != nil {
		return WrapExitError(ExitFailure, "run aborted", err)
	}

	passed := 0
	for _, e := range entries {
		if e.Result.Success {
			passed++
		}
	}
	logger.Info("run complete", "passed", passed, "failed", len(entries)-passed)

	return nil
}

// commonDir returns the deepest directory containing every path, or ""
// when the paths share none.
func commonDir(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	common := filepath.Dir(filepath.Clean(paths[0]))
	for _, p := range paths[1:] {
		dir := filepath.Dir(filepath.Clean(p))
		for !isWithin(dir, common) {
			parent := filepath.Dir(common)
			if parent == common {
				return ""
			}
			common = parent
		}
	}
	return common
}

func isWithin(dir, parent string) bool {
	rel, err := filepath.Rel(parent, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
