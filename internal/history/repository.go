// Package history records run-level summaries of reserve estimations.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Run is the summary of one completed simulation
type Run struct {
	ID         string
	StartedAt  time.Time
	InputPath  string
	OutputPath string
	Policies   int
	Trials     int
	Workers    int
	ClaimModel string
	Seed       uint64
	Seeded     bool
	Mean       float64
	Elapsed    time.Duration
	ResultURI  string // s3:// location when the result was published
}

// NewRunID returns a fresh run identifier
func NewRunID() string {
	return uuid.NewString()
}

// Repository stores runs in the history database
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new history repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "history").Logger(),
	}
}

// Record inserts a run. A run without an ID gets one.
func (r *Repository) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	query := `
		INSERT INTO runs
		(id, started_at, input_path, output_path, policies, trials, workers,
		 claim_model, seed, seeded, mean, elapsed_ms, result_uri)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	seeded := 0
	if run.Seeded {
		seeded = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt.Unix(),
		run.InputPath,
		run.OutputPath,
		run.Policies,
		run.Trials,
		run.Workers,
		run.ClaimModel,
		strconv.FormatUint(run.Seed, 10),
		seeded,
		run.Mean,
		run.Elapsed.Milliseconds(),
		run.ResultURI,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}

	r.log.Debug().Str("run_id", run.ID).Float64("mean", run.Mean).Msg("Run recorded")
	return run.ID, nil
}

// Recent returns up to limit runs, newest first
func (r *Repository) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return []Run{}, nil
	}

	query := `
		SELECT id, started_at, input_path, output_path, policies, trials, workers,
		       claim_model, seed, seeded, mean, elapsed_ms, result_uri
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// Get returns the run with the given id, or nil if none exists
func (r *Repository) Get(ctx context.Context, id string) (*Run, error) {
	query := `
		SELECT id, started_at, input_path, output_path, policies, trials, workers,
		       claim_model, seed, seeded, mean, elapsed_ms, result_uri
		FROM runs
		WHERE id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	run, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run       Run
		startedAt int64
		seed      string
		seeded    int
		elapsedMs int64
	)

	err := rows.Scan(
		&run.ID,
		&startedAt,
		&run.InputPath,
		&run.OutputPath,
		&run.Policies,
		&run.Trials,
		&run.Workers,
		&run.ClaimModel,
		&seed,
		&seeded,
		&run.Mean,
		&elapsedMs,
		&run.ResultURI,
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Seed, err = strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return Run{}, fmt.Errorf("run %s has invalid seed %q: %w", run.ID, seed, err)
	}
	run.StartedAt = time.Unix(startedAt, 0).UTC()
	run.Seeded = seeded != 0
	run.Elapsed = time.Duration(elapsedMs) * time.Millisecond

	return run, nil
}
