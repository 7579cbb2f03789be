// Package diagnostics records search-run metadata to an append-only sqlite
// table: an audit log a long-running deployment can inspect, never a
// solution cache. Nothing in bnb or mcts reads this store back to skip
// computation.
package diagnostics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_runs (
	run_id           TEXT PRIMARY KEY,
	algorithm        TEXT NOT NULL,
	n_tasks          INTEGER NOT NULL,
	n_channels       INTEGER NOT NULL,
	loss             REAL NOT NULL,
	optimal          INTEGER NOT NULL,
	duration_seconds REAL NOT NULL,
	recorded_at      TEXT NOT NULL
);
`

// DB wraps a sqlite-backed connection to the diagnostics store.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if necessary) the sqlite diagnostics database at
// path and ensures its schema exists.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: open %s: %w", path, err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("diagnostics: create schema: %w", err)
	}
	return &DB{sql: conn}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Run is one recorded search-run's metadata.
type Run struct {
	RunID           string
	Algorithm       string
	NTasks          int
	NChannels       int
	Loss            float64
	Optimal         bool
	DurationSeconds float64
	RecordedAt      time.Time
}

// RecordRun inserts a completed search run's metadata. It is write-only from
// the driver's perspective: no query in this package is ever used to decide
// whether a search can be skipped.
func (d *DB) RecordRun(ctx context.Context, r Run) error {
	_, err := d.sql.ExecContext(ctx, `
		INSERT INTO search_runs (run_id, algorithm, n_tasks, n_channels, loss, optimal, duration_seconds, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, r.Algorithm, r.NTasks, r.NChannels, r.Loss, r.Optimal, r.DurationSeconds, r.RecordedAt.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"))
	if err != nil {
		return fmt.Errorf("diagnostics: record run %s: %w", r.RunID, err)
	}
	return nil
}

// RecentRuns returns up to limit most-recently-recorded runs, newest first.
func (d *DB) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT run_id, algorithm, n_tasks, n_channels, loss, optimal, duration_seconds, recorded_at
		FROM search_runs
		ORDER BY recorded_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: query recent runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var optimal int
		var recordedAt string
		if err := rows.Scan(&r.RunID, &r.Algorithm, &r.NTasks, &r.NChannels, &r.Loss, &optimal, &r.DurationSeconds, &recordedAt); err != nil {
			return nil, fmt.Errorf("diagnostics: scan run row: %w", err)
		}
		r.Optimal = optimal != 0
		r.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("diagnostics: parse recorded_at: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("diagnostics: iterate run rows: %w", err)
	}
	return out, nil
}
