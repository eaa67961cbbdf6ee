package app

import (
	"context"
	"fmt"

	"github.com/studypulse/pulse/internal/workload"
)

// CreatePersonalTask stores a self-authored task for ownerID. The record's
// owner and type are overridden; a missing stress score is filled in by the
// scorer.
func (s *Service) CreatePersonalTask(ctx context.Context, ownerID string, rec workload.TaskRecord) (workload.Task, error) {
	personal := string(workload.KindPersonal)
	rec.Type = &personal
	rec.StudentUID = &ownerID
	rec.ClassID = nil
	rec.ID = nil

	t, err := rec.ToTask()
	if err != nil {
		return workload.Task{}, err
	}
	if rec.StressScore == nil {
		t.StressScore = s.scorer.Score(ctx, t.Title, t.Description).Score
	}
	t.CreatedAt = s.clock.Instant().UTC()

	if err := s.repo.CreateTask(ctx, &t); err != nil {
		return workload.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// SetIncludeInPulse toggles whether the owner's task counts toward load.
func (s *Service) SetIncludeInPulse(ctx context.Context, ownerID, taskID string, include bool) (workload.Task, error) {
	if err := s.repo.SetIncludeInPulse(ctx, ownerID, taskID, include); err != nil {
		return workload.Task{}, err
	}
	return s.repo.GetTask(ctx, taskID)
}

// SetCompleted marks the owner's task done or reopens it.
func (s *Service) SetCompleted(ctx context.Context, ownerID, taskID string, completed bool) (workload.Task, error) {
	if err := s.repo.SetCompleted(ctx, ownerID, taskID, completed); err != nil {
		return workload.Task{}, err
	}
	return s.repo.GetTask(ctx, taskID)
}

// Overdue lists the student's open tasks that are past due.
func (s *Service) Overdue(ctx context.Context, studentID string) ([]workload.Task, error) {
	tasks, err := s.repo.ListTasksByOwner(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return workload.Overdue(tasks, s.clock), nil
}

// Simulate forecasts delaying one of the student's tasks by delayDays.
// Another student's task is reported as unknown.
func (s *Service) Simulate(ctx context.Context, studentID, taskID string, delayDays int) (workload.SimulationResult, error) {
	tasks, err := s.repo.ListTasksByOwner(ctx, studentID)
	if err != nil {
		return workload.SimulationResult{}, err
	}
	return s.simulator.Simulate(ctx, tasks, taskID, delayDays)
}
