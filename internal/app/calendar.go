package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/studypulse/pulse/internal/calendar"
	"github.com/studypulse/pulse/internal/store"
	"github.com/studypulse/pulse/internal/telemetry"
	"github.com/studypulse/pulse/internal/workload"
)

// ImportResult counts what a calendar import did.
type ImportResult struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Linked   int `json:"linked"`
}

// ImportCalendar adds calendar entries as tasks for studentID, skipping
// titles the student already has. With a classID the student must be
// enrolled; existing unlinked entries are then attached to the class.
func (s *Service) ImportCalendar(ctx context.Context, studentID, classID string, entries []calendar.Entry) (ImportResult, error) {
	if classID != "" {
		c, err := s.repo.GetClass(ctx, classID)
		if err != nil {
			return ImportResult{}, err
		}
		if !c.HasStudent(studentID) {
			return ImportResult{}, fmt.Errorf("class %s: %w", classID, ErrForbidden)
		}
	}

	var (
		res     ImportResult
		pending []workload.Task
		seen    = make(map[string]bool)
	)
	now := s.clock.Instant().UTC()

	for _, e := range entries {
		if seen[e.Title] {
			continue
		}
		seen[e.Title] = true

		existing, err := s.repo.FindTaskByTitle(ctx, studentID, e.Title)
		switch {
		case err == nil:
			res.Existing++
			if classID != "" && existing.ClassID == "" {
				if err := s.repo.AttachClass(ctx, studentID, existing.ID, classID); err != nil {
					return ImportResult{}, err
				}
				res.Linked++
			}
			continue
		case !errors.Is(err, store.ErrNotFound):
			return ImportResult{}, err
		}

		t := e.ToTask(studentID, classID)
		t.CreatedAt = now
		pending = append(pending, t)
	}

	if err := s.repo.CreateTasks(ctx, pending); err != nil {
		return ImportResult{}, fmt.Errorf("import calendar: %w", err)
	}
	res.Created = len(pending)

	s.track(telemetry.EventCalendarImported, map[string]any{
		"created": res.Created,
		"linked":  res.Linked,
	})
	return res, nil
}
