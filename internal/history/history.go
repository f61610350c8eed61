// Package history persists an extraction log to SQLite. The log is
// append-only and never consulted during extraction; it exists for the
// history API and operator debugging.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"mediarelay/internal/core/domain"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS extractions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id TEXT NOT NULL,
    url TEXT NOT NULL,
    platform TEXT NOT NULL,
    extractor TEXT,
    media_count INTEGER NOT NULL DEFAULT 0,
    success BOOLEAN NOT NULL,
    reason TEXT,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_extractions_created ON extractions(created_at);
`

// Store is a SQLite-backed extraction log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the log database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends one extraction outcome.
func (s *Store) Record(ctx context.Context, rec domain.HistoryRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extractions (request_id, url, platform, extractor, media_count, success, reason, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.RequestID, rec.URL, string(rec.Platform), string(rec.Extractor),
		rec.MediaCount, rec.Success, rec.Reason, rec.Duration.Milliseconds(), createdAt)
	if err != nil {
		return fmt.Errorf("recording extraction: %w", err)
	}
	return nil
}

// Recent returns the newest records, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, url, platform, extractor, media_count, success, reason, duration_ms, created_at
		FROM extractions ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var platform, extractor string
		var durationMs int64
		if err := rows.Scan(&rec.RequestID, &rec.URL, &platform, &extractor,
			&rec.MediaCount, &rec.Success, &rec.Reason, &durationMs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		rec.Platform = domain.Platform(platform)
		rec.Extractor = domain.ExtractorName(extractor)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
