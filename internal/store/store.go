// Package store persists companies and the send and opt-out ledgers in
// an embedded SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
  orgnr TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  municipality TEXT NOT NULL DEFAULT '',
  nace TEXT NOT NULL DEFAULT '',
  website TEXT,
  email TEXT,
  source TEXT NOT NULL DEFAULT '',
  last_seen INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sent (
  email TEXT PRIMARY KEY,
  company_orgnr TEXT NOT NULL,
  sent_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS unsubscribed (
  email TEXT PRIMARY KEY,
  unsubscribed_at INTEGER NOT NULL
);
`

// Store wraps the SQLite handle. Every mutation is a single atomic
// write, so an interrupted run leaves the database consistent.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the SQLite database at path and
// applies the schema. Pass ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// The pool would otherwise hand out fresh, empty in-memory
		// databases per connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func timeFromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// nullable maps empty strings to NULL so the coalescing upsert can tell
// "unknown" apart from a real value.
func nullable(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

// foldEmail lowercases ledger keys; the ledgers are keyed per address
// regardless of case.
func foldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsUnsubscribed reports whether the address has opted out. Opt-out is
// permanent.
func (s *Store) IsUnsubscribed(ctx context.Context, email string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM unsubscribed WHERE email = ?`, foldEmail(email),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query unsubscribed: %w", err)
	}
	return true, nil
}

// RecordSent marks the address as contacted. The ledger is permanent
// at-most-once: recording the same address again is a no-op rather than
// a refresh, so no later run can re-deliver to it.
func (s *Store) RecordSent(ctx context.Context, email, orgnr string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sent (email, company_orgnr, sent_at) VALUES (?, ?, ?)
		 ON CONFLICT(email) DO NOTHING`,
		foldEmail(email), orgnr, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record sent: %w", err)
	}
	return nil
}

// RecordUnsubscribe registers a permanent opt-out for the address.
func (s *Store) RecordUnsubscribe(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO unsubscribed (email, unsubscribed_at) VALUES (?, ?)
		 ON CONFLICT(email) DO NOTHING`,
		foldEmail(email), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record unsubscribe: %w", err)
	}
	return nil
}
