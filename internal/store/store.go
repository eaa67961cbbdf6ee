// Package store persists tasks and classes in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a task or class does not exist, or is not
// visible to the caller.
var ErrNotFound = errors.New("not found")

// Store is the SQLite-backed document store.
type Store struct {
	db      *sql.DB
	newCode func() (string, error)
}

// Open opens (and migrates) the database at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db, newCode: randomJoinCode}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS classes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS class_teachers (
		class_id TEXT NOT NULL,
		teacher_id TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE,
		PRIMARY KEY (class_id, teacher_id)
	);

	-- Membership is append-only
	CREATE TABLE IF NOT EXISTS class_students (
		class_id TEXT NOT NULL,
		student_id TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE,
		PRIMARY KEY (class_id, student_id)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		class_id TEXT,
		kind TEXT NOT NULL,                -- INSTITUTIONAL, PERSONAL
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date TEXT,                     -- YYYY-MM-DD, NULL when absent
		stress_score INTEGER NOT NULL,
		include_in_pulse INTEGER NOT NULL DEFAULT 0,
		is_private INTEGER NOT NULL DEFAULT 0,
		is_completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_class ON tasks(class_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_owner_title ON tasks(owner_id, title);
	CREATE INDEX IF NOT EXISTS idx_class_students_student ON class_students(student_id);
	CREATE INDEX IF NOT EXISTS idx_class_teachers_teacher ON class_teachers(teacher_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// checkRowsErr reports errors hit during row iteration.
func checkRowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
