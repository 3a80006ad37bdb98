package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/roach88/yololtest/internal/harness"
	"github.com/roach88/yololtest/internal/report"
	"github.com/roach88/yololtest/internal/store"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string // optional - results of one run
	Format   string // "json" | "text"
}

// RunJSON is a recorded run in JSON output.
type RunJSON struct {
	ID              string `json:"id"`
	StartedAt       string `json:"started_at"`
	Dir             string `json:"dir"`
	MaxLines        int    `json:"max_lines"`
	MaxStringLength int    `json:"max_string_length"`
	MaxTicks        int64  `json:"max_ticks"`
	Tests           int    `json:"tests"`
	Passed          int    `json:"passed"`
	Failed          int    `json:"failed"`
}

// ResultJSON is a recorded test result in JSON output.
type ResultJSON struct {
	Seq     int    `json:"seq"`
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
	Ticks   int64  `json:"ticks"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Long: `Show runs recorded with --record.

Without --run, lists runs newest first with their pass and fail counts.
With --run, shows every result of that run in discovery order.

Exit codes:
  0 - History shown
  2 - Command error (database or run not found, invalid flags)

Examples:
  yololtest history --db history.db
  yololtest history --db history.db --limit 5
  yololtest history --db history.db --run 0190f6b4-7c1e-7d2a-9c4b-3f5e6a7b8c9d
  yololtest history --db history.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the results of one run")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if opts.Database == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}
	// Opening would create an empty database, which hides typos.
	if _, err := os.Stat(opts.Database); err != nil {
		msg := fmt.Sprintf("database not found: %s", opts.Database)
		if opts.Format == "json" {
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
		}
		return NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		logger.Debug("reading run", "run_id", opts.RunID)
		records, err := st.RunResults(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			msg := fmt.Sprintf("run not found: %s", opts.RunID)
			if opts.Format == "json" {
				_ = formatter.Error(ErrCodeNotFound, msg, nil)
			}
			return NewExitError(ExitCommandError, msg)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		if opts.Format == "json" {
			return formatter.Success(map[string]any{"run_id": opts.RunID, "results": resultsJSON(records)})
		}
		return outputResultsText(cmd.OutOrStdout(), records)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if opts.Format == "json" {
		return formatter.Success(map[string]any{"runs": runsJSON(runs)})
	}
	return outputRunsText(cmd.OutOrStdout(), runs)
}

func runsJSON(runs []store.RunSummary) []RunJSON {
	out := make([]RunJSON, len(runs))
	for i, r := range runs {
		out[i] = RunJSON{
			ID:              r.ID,
			StartedAt:       r.StartedAt.Format(time.RFC3339),
			Dir:             r.Dir,
			MaxLines:        r.Options.MaxLines,
			MaxStringLength: r.Options.MaxStringLength,
			MaxTicks:        r.Options.MaxTicks,
			Tests:           r.TestCount,
			Passed:          r.Passed,
			Failed:          r.Failed,
		}
	}
	return out
}

func resultsJSON(records []store.ResultRecord) []ResultJSON {
	out := make([]ResultJSON, len(records))
	for i, rec := range records {
		out[i] = ResultJSON{
			Seq:     rec.Seq,
			Path:    rec.Path,
			Success: rec.Result.Success,
			Kind:    string(rec.Result.Kind),
			Message: rec.Result.Message,
			Ticks:   rec.Result.Ticks,
		}
	}
	return out
}

func outputRunsText(w io.Writer, runs []store.RunSummary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	for _, r := range runs {
		_, err := fmt.Fprintf(w, "%s  %s  %d passed, %d failed, %d tests  %s\n",
			r.ID,
			r.StartedAt.Format(time.RFC3339),
			r.Passed,
			r.Failed,
			r.TestCount,
			r.Dir,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// outputResultsText shows a recorded run with the same checklist the live
// reporter draws, without colour or screen clearing.
func outputResultsText(w io.Writer, records []store.ResultRecord) error {
	entries := make([]harness.Entry, len(records))
	for i, rec := range records {
		result := rec.Result
		entries[i] = harness.Entry{Test: harness.TestCase{Path: rec.Path}, Result: &result}
	}
	term := report.NewTerminal(w, report.WithProfile(termenv.Ascii), report.WithClear(false))
	return term.Render(entries)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
