package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autopilot/internal/util"

	_ "modernc.org/sqlite"
)

// Entry is one recorded tool call.
type Entry struct {
	ID         int64     `json:"id" yaml:"id"`
	RunID      string    `json:"run_id" yaml:"run_id"`
	Tool       string    `json:"tool" yaml:"tool"`
	Args       string    `json:"args" yaml:"args"`
	Result     string    `json:"result" yaml:"result"`
	DurationMs int64     `json:"duration_ms" yaml:"duration_ms"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Store persists tool calls in a sqlite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the audit database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("audit store path must be set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare audit dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit store: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS tool_calls (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	tool TEXT NOT NULL,
	args TEXT NOT NULL,
	result TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init audit schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record stores entry with secrets redacted from its arguments and result.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_calls (run_id, tool, args, result, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.Tool, util.RedactSecrets(entry.Args), util.RedactSecrets(entry.Result), entry.DurationMs, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("record tool call: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, run_id, tool, args, result, duration_ms, created_at
FROM tool_calls
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query tool calls: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RunID, &e.Tool, &e.Args, &e.Result, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tool call: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
