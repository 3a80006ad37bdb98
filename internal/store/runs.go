package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/yololtest/internal/harness"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Run describes one invocation of the harness.
type Run struct {
	ID        string
	StartedAt time.Time
	Dir       string
	Options   harness.Options
	TestCount int
}

// RunSummary is a Run with result counts. Tests that never recorded a
// result (for example after an aborted run) are neither passed nor failed.
type RunSummary struct {
	Run
	Passed int
	Failed int
}

// ResultRecord is one stored test result.
type ResultRecord struct {
	RunID  string
	Seq    int
	Path   string
	Result harness.Result
}

// BeginRun records the start of a run and returns it with a fresh id.
func (s *Store) BeginRun(ctx context.Context, dir string, opts harness.Options, testCount int) (Run, error) {
	run := Run{
		ID:        s.ids.Generate(),
		StartedAt: s.clock().UTC(),
		Dir:       dir,
		Options:   opts,
		TestCount: testCount,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, dir, max_lines, max_string_length, max_ticks, test_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.StartedAt.Format(time.RFC3339Nano),
		run.Dir,
		run.Options.MaxLines,
		run.Options.MaxStringLength,
		run.Options.MaxTicks,
		run.TestCount,
	)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// RecordResult stores the result of the seq'th test of a run. Pending
// entries cannot be recorded, and a result is written at most once.
func (s *Store) RecordResult(ctx context.Context, runID string, seq int, entry harness.Entry) error {
	if entry.Pending() {
		return fmt.Errorf("record result: test %s has no result", entry.Test.Path)
	}
	r := entry.Result

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results
		(run_id, seq, path, success, kind, message, ticks)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		seq,
		entry.Test.Path,
		r.Success,
		string(r.Kind),
		r.Message,
		r.Ticks,
	)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at, r.dir, r.max_lines, r.max_string_length, r.max_ticks, r.test_count,
		       COALESCE(SUM(CASE WHEN res.success = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN res.success = 0 THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN results res ON res.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var (
			sum     RunSummary
			started string
		)
		if err := rows.Scan(
			&sum.ID, &started, &sum.Dir,
			&sum.Options.MaxLines, &sum.Options.MaxStringLength, &sum.Options.MaxTicks,
			&sum.TestCount, &sum.Passed, &sum.Failed,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if sum.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at of run %s: %w", sum.ID, err)
		}
		runs = append(runs, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunResults returns the results of a run in discovery order.
func (s *Store) RunResults(ctx context.Context, runID string) ([]ResultRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, path, success, kind, message, ticks
		FROM results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	records := []ResultRecord{}
	for rows.Next() {
		var (
			rec  ResultRecord
			kind string
		)
		if err := rows.Scan(
			&rec.RunID, &rec.Seq, &rec.Path,
			&rec.Result.Success, &kind, &rec.Result.Message, &rec.Result.Ticks,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.Result.Kind = harness.Kind(kind)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return records, nil
}

// RunRecorder records entries of a single run. It implements
// harness.Recorder.
type RunRecorder struct {
	store *Store
	runID string
}

// Recorder returns a harness.Recorder writing into run.
func (s *Store) Recorder(run Run) *RunRecorder {
	return &RunRecorder{store: s, runID: run.ID}
}

// Record implements harness.Recorder.
func (r *RunRecorder) Record(ctx context.Context, seq int, entry harness.Entry) error {
	return r.store.RecordResult(ctx, r.runID, seq, entry)
}

var _ harness.Recorder = (*RunRecorder)(nil)
