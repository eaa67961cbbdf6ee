package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/pulse/internal/workload"
)

const (
	joinCodeLength   = 6
	joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	joinCodeAttempts = 8
)

// ErrCodeExhausted is returned when no free join code was found.
var ErrCodeExhausted = errors.New("could not allocate a unique join code")

func randomJoinCode() (string, error) {
	limit := big.NewInt(int64(len(joinCodeAlphabet)))
	var b strings.Builder
	for range joinCodeLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate join code: %w", err)
		}
		b.WriteByte(joinCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeJoinCode upper-cases and trims a user-entered code.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateClass creates a class owned by teacherID with a fresh join code.
// Codes are retried on collision.
func (s *Store) CreateClass(ctx context.Context, teacherID, name string) (workload.Class, error) {
	c := workload.Class{
		ID:         "class-" + uuid.NewString(),
		Name:       strings.TrimSpace(name),
		TeacherIDs: []string{teacherID},
		StudentIDs: []string{},
		CreatedAt:  time.Now().UTC(),
	}

	for range joinCodeAttempts {
		code, err := s.newCode()
		if err != nil {
			return workload.Class{}, err
		}
		c.Code = code

		err = s.insertClass(ctx, c, teacherID)
		if isUniqueViolation(err, "classes.code") {
			continue
		}
		if err != nil {
			return workload.Class{}, err
		}
		return c, nil
	}
	return workload.Class{}, ErrCodeExhausted
}

func (s *Store) insertClass(ctx context.Context, c workload.Class, teacherID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO classes (id, name, code, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Code, formatTime(c.CreatedAt)); err != nil {
		return fmt.Errorf("insert class: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO class_teachers (class_id, teacher_id) VALUES (?, ?)`,
		c.ID, teacherID); err != nil {
		return fmt.Errorf("insert class teacher: %w", err)
	}
	return tx.Commit()
}

// GetClass returns a class with its teacher and student rosters.
func (s *Store) GetClass(ctx context.Context, id string) (workload.Class, error) {
	return s.getClassWhere(ctx, "id = ?", id)
}

// GetClassByCode returns the class with the given join code.
func (s *Store) GetClassByCode(ctx context.Context, code string) (workload.Class, error) {
	return s.getClassWhere(ctx, "code = ?", NormalizeJoinCode(code))
}

func (s *Store) getClassWhere(ctx context.Context, where string, arg string) (workload.Class, error) {
	var (
		c         workload.Class
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, code, created_at FROM classes WHERE `+where, arg,
	).Scan(&c.ID, &c.Name, &c.Code, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return workload.Class{}, fmt.Errorf("class %s: %w", arg, ErrNotFound)
	}
	if err != nil {
		return workload.Class{}, fmt.Errorf("query class: %w", err)
	}
	c.CreatedAt = parseTime(createdAt)

	if c.TeacherIDs, err = s.members(ctx, `SELECT teacher_id FROM class_teachers WHERE class_id = ? ORDER BY rowid`, c.ID); err != nil {
		return workload.Class{}, err
	}
	if c.StudentIDs, err = s.members(ctx, `SELECT student_id FROM class_students WHERE class_id = ? ORDER BY rowid`, c.ID); err != nil {
		return workload.Class{}, err
	}
	return c, nil
}

func (s *Store) members(ctx context.Context, query, classID string) ([]string, error) {
	ids, err := s.queryStrings(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("class %s members: %w", classID, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ListTeacherClasses returns the classes taught by teacherID.
func (s *Store) ListTeacherClasses(ctx context.Context, teacherID string) ([]workload.Class, error) {
	return s.listClasses(ctx, `
		SELECT c.id FROM classes c
		JOIN class_teachers t ON t.class_id = c.id
		WHERE t.teacher_id = ? ORDER BY c.created_at, c.id
	`, teacherID)
}

// ListStudentClasses returns the classes studentID has joined.
func (s *Store) ListStudentClasses(ctx context.Context, studentID string) ([]workload.Class, error) {
	return s.listClasses(ctx, `
		SELECT c.id FROM classes c
		JOIN class_students m ON m.class_id = c.id
		WHERE m.student_id = ? ORDER BY c.created_at, c.id
	`, studentID)
}

func (s *Store) listClasses(ctx context.Context, query, userID string) ([]workload.Class, error) {
	// IDs are collected first; the single connection cannot serve nested queries.
	ids, err := s.queryStrings(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	classes := make([]workload.Class, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetClass(ctx, id)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// JoinClass enrolls studentID in the class with the given code. Joining
// twice is a no-op.
func (s *Store) JoinClass(ctx context.Context, studentID, code string) (workload.Class, error) {
	c, err := s.GetClassByCode(ctx, code)
	if err != nil {
		return workload.Class{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO class_students (class_id, student_id) VALUES (?, ?)`,
		c.ID, studentID); err != nil {
		return workload.Class{}, fmt.Errorf("join class: %w", err)
	}
	return s.GetClass(ctx, c.ID)
}

func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return out, nil
}
