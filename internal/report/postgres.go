package report

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS document_index_status (
	path          TEXT PRIMARY KEY,
	status        TEXT NOT NULL,
	thread_count  INTEGER NOT NULL,
	terms         INTEGER NOT NULL,
	duration_ms   DOUBLE PRECISION NOT NULL,
	failed_worker INTEGER,
	error         TEXT,
	attempts      INTEGER NOT NULL DEFAULT 1,
	indexed_at    TIMESTAMPTZ NOT NULL
)`

const upsertStatus = `
INSERT INTO document_index_status
	(path, status, thread_count, terms, duration_ms, failed_worker, error, indexed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (path) DO UPDATE SET
	status        = EXCLUDED.status,
	thread_count  = EXCLUDED.thread_count,
	terms         = EXCLUDED.terms,
	duration_ms   = EXCLUDED.duration_ms,
	failed_worker = EXCLUDED.failed_worker,
	error         = EXCLUDED.error,
	attempts      = document_index_status.attempts + 1,
	indexed_at    = EXCLUDED.indexed_at`

// PostgresSink records the latest indexing status per document path.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Name() string { return "postgres" }

// EnsureSchema creates the status table if it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating document_index_status: %w", err)
	}
	return nil
}

func (s *PostgresSink) Report(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, upsertStatus,
		r.Document,
		r.Status,
		r.ThreadCount,
		r.Terms,
		r.DurationMs,
		nullInt(r.FailedWorker),
		nullString(r.Error),
		r.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting status for %s: %w", r.Document, err)
	}
	return nil
}

// Status returns the stored status and attempt count for path.
func (s *PostgresSink) Status(ctx context.Context, path string) (status string, attempts int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT status, attempts FROM document_index_status WHERE path = $1`, path,
	).Scan(&status, &attempts)
	if err != nil {
		return "", 0, fmt.Errorf("reading status for %s: %w", path, err)
	}
	return status, attempts, nil
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
