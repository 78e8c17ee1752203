// Package store archives completed pipeline runs in SQLite. The JSON output
// files remain the canonical product; the archive only backs the status
// command and never feeds into a run.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    date TEXT PRIMARY KEY,
    item_count INTEGER NOT NULL,
    must_read_count INTEGER NOT NULL,
    source TEXT NOT NULL,
    completed_at TEXT DEFAULT (datetime('now'))
);`

// Store wraps the SQLite run archive.
type Store struct {
	conn *sql.DB
	path string
}

// Run is one archived pipeline run. Source records which tier produced the
// items: openalex, crossref, or none.
type Run struct {
	Date          string
	ItemCount     int
	MustReadCount int
	Source        string
	CompletedAt   string
}

// Open creates or opens the archive at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordRun inserts or replaces the archive entry for a date.
func (s *Store) RecordRun(date string, itemCount, mustReadCount int, source string) error {
	_, err := s.conn.Exec(`
INSERT INTO runs (date, item_count, must_read_count, source, completed_at)
VALUES (?, ?, ?, ?, datetime('now'))
ON CONFLICT(date) DO UPDATE SET
    item_count = excluded.item_count,
    must_read_count = excluded.must_read_count,
    source = excluded.source,
    completed_at = excluded.completed_at`,
		date, itemCount, mustReadCount, source)
	return err
}

// ListRuns returns up to limit archived runs, newest date first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.conn.Query(`
SELECT date, item_count, must_read_count, source, completed_at
FROM runs ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.Date, &r.ItemCount, &r.MustReadCount, &r.Source, &r.CompletedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastRun returns the newest archived run, or nil when the archive is empty.
func (s *Store) LastRun() (*Run, error) {
	runs, err := s.ListRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
