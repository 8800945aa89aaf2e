// Package store keeps a local ledger of every job the worker has run, so
// operators can list outcomes and recover failure details after the fact.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Job statuses recorded in the ledger.
const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

// ErrNotFound is returned by Get for unknown job IDs.
var ErrNotFound = errors.New("job not found")

// Record is one ledger row.
type Record struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `json:"status"`
	ClipCount   int       `json:"clip_count"`
	CueCount    int       `json:"cue_count"`
	DurationSec float64   `json:"duration_sec,omitempty"` // Narration duration; 0 when the job failed before probing.
	VideoURL    string    `json:"video_url,omitempty"`
	Filename    string    `json:"filename,omitempty"`
	FailKind    string    `json:"fail_kind,omitempty"`
	FailDetail  string    `json:"fail_detail,omitempty"`
	ElapsedMS   int64     `json:"elapsed_ms"`
}

// Store wraps the sqlite connection. A single connection is enough: jobs are
// single-flight and the API only reads.
type Store struct {
	conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id           TEXT PRIMARY KEY,
	created_at   TEXT NOT NULL,
	status       TEXT NOT NULL,
	clip_count   INTEGER NOT NULL,
	cue_count    INTEGER NOT NULL,
	duration_sec REAL NOT NULL DEFAULT 0,
	video_url    TEXT NOT NULL DEFAULT '',
	filename     TEXT NOT NULL DEFAULT '',
	fail_kind    TEXT NOT NULL DEFAULT '',
	fail_detail  TEXT NOT NULL DEFAULT '',
	elapsed_ms   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at DESC);
`

// Open creates (if needed) and opens the ledger at dir/jobs.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	conn, err := sql.Open("sqlite", filepath.Join(dir, "jobs.db"))
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error { return s.conn.Close() }

// Insert writes one job record.
func (s *Store) Insert(ctx context.Context, r *Record) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO jobs (id, created_at, status, clip_count, cue_count,
			duration_sec, video_url, filename, fail_kind, fail_detail, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Status,
		r.ClipCount, r.CueCount, r.DurationSec,
		r.VideoURL, r.Filename, r.FailKind, r.FailDetail, r.ElapsedMS,
	)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", r.ID, err)
	}
	return nil
}

// Get returns one job by ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, created_at, status, clip_count, cue_count,
			duration_sec, video_url, filename, fail_kind, fail_detail, elapsed_ms
		FROM jobs WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return rec, nil
}

// List returns the most recent jobs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, created_at, status, clip_count, cue_count,
			duration_sec, video_url, filename, fail_kind, fail_detail, elapsed_ms
		FROM jobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var created string
	if err := s.Scan(
		&rec.ID, &created, &rec.Status, &rec.ClipCount, &rec.CueCount,
		&rec.DurationSec, &rec.VideoURL, &rec.Filename,
		&rec.FailKind, &rec.FailDetail, &rec.ElapsedMS,
	); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
