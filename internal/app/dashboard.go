package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/studypulse/pulse/internal/workload"
)

// StudentDashboard is everything the student home screen shows.
type StudentDashboard struct {
	Stats      workload.AggregateStats       `json:"stats"`
	Priorities workload.PrioritizationResult `json:"priorities"`
	Insight    workload.Insight              `json:"insight"`
	Overdue    []workload.Task               `json:"overdue"`
	Tasks      []workload.Task               `json:"tasks"`
	Classes    []workload.Class              `json:"classes"`
}

// StudentDashboard aggregates the student's tasks. The execution order and
// the insight are requested concurrently; both always return a result.
func (s *Service) StudentDashboard(ctx context.Context, studentID string) (StudentDashboard, error) {
	tasks, err := s.repo.ListTasksByOwner(ctx, studentID)
	if err != nil {
		return StudentDashboard{}, err
	}
	classes, err := s.repo.ListStudentClasses(ctx, studentID)
	if err != nil {
		return StudentDashboard{}, err
	}
	if tasks == nil {
		tasks = []workload.Task{}
	}

	d := StudentDashboard{
		Stats:   s.aggregator.Aggregate(tasks, s.window),
		Overdue: workload.Overdue(tasks, s.clock),
		Tasks:   tasks,
		Classes: classes,
	}

	open := make([]workload.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsCompleted {
			open = append(open, t)
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		d.Priorities = s.prioritizer.Prioritize(ctx, open)
		return nil
	})
	g.Go(func() error {
		d.Insight = s.insighter.Insight(ctx, d.Stats)
		return nil
	})
	_ = g.Wait()

	return d, nil
}
