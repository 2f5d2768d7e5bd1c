// Package history provides a SQLite-backed journal of completed lookups.
//
// The journal is daemon-side observability only: the lookup library itself
// persists nothing. Entries are pruned to a configurable cap so the file
// cannot grow without bound.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded lookup.
type Entry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	QueryType string    `json:"type"`
	Outcome   string    `json:"outcome"`
	Answers   int       `json:"answers"`
	Error     string    `json:"error,omitempty"`
	Duration  int64     `json:"duration_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a lookup journal backed by a SQLite file.
type Store struct {
	conn       *sql.DB
	maxEntries int
}

// Open opens or creates the journal at path. maxEntries caps the number of
// retained rows; older rows are pruned as new ones arrive.
func Open(path string, maxEntries int) (*Store, error) {
	// WAL mode keeps writers from blocking the API's readers.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &Store{conn: conn, maxEntries: maxEntries}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Record inserts one entry and prunes rows beyond the retention cap.
func (s *Store) Record(e Entry) error {
	_, err := s.conn.Exec(
		`INSERT INTO lookups (name, qtype, outcome, answers, error, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, e.QueryType, e.Outcome, e.Answers, nullable(e.Error), e.Duration,
	)
	if err != nil {
		return fmt.Errorf("failed to record lookup: %w", err)
	}
	_, err = s.conn.Exec(
		`DELETE FROM lookups WHERE id <= (SELECT MAX(id) FROM lookups) - ?`, s.maxEntries,
	)
	if err != nil {
		return fmt.Errorf("failed to prune lookup history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.maxEntries {
		limit = 100
	}
	rows, err := s.conn.Query(
		`SELECT id, name, qtype, outcome, answers, COALESCE(error, ''), duration_ms, created_at
		 FROM lookups ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookup history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.QueryType, &e.Outcome, &e.Answers, &e.Error, &e.Duration, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of retained entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM lookups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history rows: %w", err)
	}
	return n, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
