package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/pulse/internal/workload"
)

const taskColumns = `id, owner_id, class_id, kind, title, description, due_date,
	stress_score, include_in_pulse, is_private, is_completed, created_at`

// prepareTask assigns an ID and creation time when missing.
func prepareTask(t *workload.Task, now time.Time) {
	if t.ID == "" {
		t.ID = "task-" + uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
}

func insertTask(ctx context.Context, ex execer, t *workload.Task) error {
	var classID, due any
	if t.ClassID != "" {
		classID = t.ClassID
	}
	if t.DueDate != nil {
		due = t.DueDate.Format(workload.DateLayout)
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.OwnerID, classID, string(t.Kind), t.Title, t.Description, due,
		t.StressScore, t.IncludeInPulse, t.IsPrivate, t.IsCompleted, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.Title, err)
	}
	return nil
}

// CreateTask stores a single task, filling in ID and CreatedAt.
func (s *Store) CreateTask(ctx context.Context, t *workload.Task) error {
	prepareTask(t, time.Now().UTC())
	return insertTask(ctx, s.db, t)
}

// CreateTasks stores a batch atomically: either every task is written or none.
func (s *Store) CreateTasks(ctx context.Context, tasks []workload.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for i := range tasks {
		prepareTask(&tasks[i], now)
		if err := insertTask(ctx, tx, &tasks[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetTask returns a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (workload.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workload.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

// ListTasksByOwner returns every task owned by ownerID, oldest first.
func (s *Store) ListTasksByOwner(ctx context.Context, ownerID string) ([]workload.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
}

// ListTasksByOwners returns the tasks of several owners, grouped by owner.
func (s *Store) ListTasksByOwners(ctx context.Context, ownerIDs []string) ([]workload.Task, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ownerIDs)), ",")
	args := make([]any, len(ownerIDs))
	for i, id := range ownerIDs {
		args[i] = id
	}
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE owner_id IN (`+placeholders+`) ORDER BY owner_id, created_at, id`, args...)
}

// ListTasksByClass returns every task linked to classID.
func (s *Store) ListTasksByClass(ctx context.Context, classID string) ([]workload.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE class_id = ? ORDER BY owner_id, created_at, id`, classID)
}

// FindTaskByTitle returns the owner's first task with exactly this title.
func (s *Store) FindTaskByTitle(ctx context.Context, ownerID, title string) (workload.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE owner_id = ? AND title = ?
		ORDER BY created_at, id LIMIT 1
	`, ownerID, title)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return workload.Task{}, fmt.Errorf("task %q: %w", title, ErrNotFound)
	}
	return t, err
}

// SetIncludeInPulse updates the pulse flag of a task owned by ownerID.
// Institutional tasks always count, so the flag stays true for them.
func (s *Store) SetIncludeInPulse(ctx context.Context, ownerID, taskID string, include bool) error {
	return s.updateFlag(ctx, `
		UPDATE tasks SET include_in_pulse = CASE WHEN kind = 'INSTITUTIONAL' THEN 1 ELSE ? END
		WHERE id = ? AND owner_id = ?
	`, include, taskID, ownerID)
}

// SetCompleted updates the completion flag of a task owned by ownerID.
func (s *Store) SetCompleted(ctx context.Context, ownerID, taskID string, completed bool) error {
	return s.updateFlag(ctx, `UPDATE tasks SET is_completed = ? WHERE id = ? AND owner_id = ?`, completed, taskID, ownerID)
}

// AttachClass links an owner's unlinked task to classID, making it an
// institutional task. Tasks already linked to a class are left alone.
func (s *Store) AttachClass(ctx context.Context, ownerID, taskID, classID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET class_id = ?, kind = 'INSTITUTIONAL', include_in_pulse = 1
		WHERE id = ? AND owner_id = ? AND (class_id IS NULL OR class_id = '')
	`, classID, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("attach task %s: %w", taskID, err)
	}
	if _, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("attach task %s: %w", taskID, err)
	}
	return nil
}

func (s *Store) updateFlag(ctx context.Context, query string, value bool, taskID, ownerID string) error {
	res, err := s.db.ExecContext(ctx, query, value, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("update task %s: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task %s: %w", taskID, err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return nil
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]workload.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []workload.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (workload.Task, error) {
	var (
		t         workload.Task
		kind      string
		classID   sql.NullString
		due       sql.NullString
		createdAt string
	)
	err := row.Scan(&t.ID, &t.OwnerID, &classID, &kind, &t.Title, &t.Description, &due,
		&t.StressScore, &t.IncludeInPulse, &t.IsPrivate, &t.IsCompleted, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return workload.Task{}, err
	}
	if err != nil {
		return workload.Task{}, fmt.Errorf("scan task: %w", err)
	}

	t.Kind = workload.Kind(kind)
	t.ClassID = classID.String
	if due.Valid {
		if d, err := workload.ParseDate(due.String); err == nil {
			t.DueDate = &d
		}
	}
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}
