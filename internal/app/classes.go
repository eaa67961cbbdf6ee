package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/studypulse/pulse/internal/telemetry"
	"github.com/studypulse/pulse/internal/workload"
)

var validate = validator.New()

// AssignmentInput is a teacher's new class assignment.
type AssignmentInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" validate:"required,datetime=2006-01-02"`
}

// AssignmentResult reports a fan-out. Warning grades the class load that
// was already due on the date before this assignment.
type AssignmentResult struct {
	Created    int                       `json:"created"`
	Assessment workload.StressAssessment `json:"assessment"`
	Warning    workload.LoadWarning      `json:"warning"`
}

// AssignmentSummary is one distinct assignment in a class view.
type AssignmentSummary struct {
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	StressScore int        `json:"stressScore"`
	Students    int        `json:"students"`
	Completed   int        `json:"completed"`
}

// ClassDashboard is the teacher's view of one class.
type ClassDashboard struct {
	Class       workload.Class       `json:"class"`
	Cohort      workload.CohortStats `json:"cohort"`
	Assignments []AssignmentSummary  `json:"assignments"`
}

// CreateClass creates a class owned by teacherID.
func (s *Service) CreateClass(ctx context.Context, teacherID, name string) (workload.Class, error) {
	if strings.TrimSpace(name) == "" {
		return workload.Class{}, fmt.Errorf("%w: class name is required", workload.ErrInvalidTask)
	}
	return s.repo.CreateClass(ctx, teacherID, name)
}

// JoinClass enrolls studentID using a join code. Idempotent.
func (s *Service) JoinClass(ctx context.Context, studentID, code string) (workload.Class, error) {
	return s.repo.JoinClass(ctx, studentID, code)
}

// TeacherClasses lists the classes taught by teacherID.
func (s *Service) TeacherClasses(ctx context.Context, teacherID string) ([]workload.Class, error) {
	return s.repo.ListTeacherClasses(ctx, teacherID)
}

func (s *Service) classForTeacher(ctx context.Context, teacherID, classID string) (workload.Class, error) {
	c, err := s.repo.GetClass(ctx, classID)
	if err != nil {
		return workload.Class{}, err
	}
	if !c.HasTeacher(teacherID) {
		return workload.Class{}, fmt.Errorf("class %s: %w", classID, ErrForbidden)
	}
	return c, nil
}

// AssignToClass scores the assignment once and stores one institutional
// task per enrolled student in a single transaction.
func (s *Service) AssignToClass(ctx context.Context, teacherID, classID string, in AssignmentInput) (AssignmentResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return AssignmentResult{}, fmt.Errorf("%w: %v", workload.ErrInvalidTask, err)
	}
	due, err := workload.ParseDate(in.DueDate)
	if err != nil {
		return AssignmentResult{}, fmt.Errorf("%w: %v", workload.ErrInvalidTask, err)
	}

	c, err := s.classForTeacher(ctx, teacherID, classID)
	if err != nil {
		return AssignmentResult{}, err
	}

	existing, err := s.repo.ListTasksByClass(ctx, classID)
	if err != nil {
		return AssignmentResult{}, err
	}
	warning := workload.AssessDailyLoad(existing, due)

	assessment := s.scorer.Score(ctx, in.Title, in.Description)

	now := s.clock.Instant().UTC()
	tasks := make([]workload.Task, 0, len(c.StudentIDs))
	for _, studentID := range c.StudentIDs {
		d := due
		tasks = append(tasks, workload.Task{
			Title:          in.Title,
			Description:    in.Description,
			Kind:           workload.KindInstitutional,
			OwnerID:        studentID,
			ClassID:        classID,
			DueDate:        &d,
			StressScore:    assessment.Score,
			IncludeInPulse: true,
			CreatedAt:      now,
		})
	}
	if err := s.repo.CreateTasks(ctx, tasks); err != nil {
		return AssignmentResult{}, fmt.Errorf("assign to class: %w", err)
	}

	if warning.Level != workload.LoadNone {
		s.logger.Warn("assignment lands on a loaded day",
			"class", classID, "date", in.DueDate, "load", warning.Load, "level", warning.Level)
	}
	s.track(telemetry.EventAssignmentCreated, map[string]any{
		"students": len(tasks),
		"source":   string(assessment.Source),
		"level":    string(warning.Level),
	})

	return AssignmentResult{Created: len(tasks), Assessment: assessment, Warning: warning}, nil
}

// ClassDashboard aggregates the class roster for one of its teachers.
func (s *Service) ClassDashboard(ctx context.Context, teacherID, classID string) (ClassDashboard, error) {
	c, err := s.classForTeacher(ctx, teacherID, classID)
	if err != nil {
		return ClassDashboard{}, err
	}

	rosterTasks, err := s.repo.ListTasksByOwners(ctx, c.StudentIDs)
	if err != nil {
		return ClassDashboard{}, err
	}
	classTasks, err := s.repo.ListTasksByClass(ctx, classID)
	if err != nil {
		return ClassDashboard{}, err
	}

	return ClassDashboard{
		Class:       c,
		Cohort:      s.aggregator.AggregateCohort(rosterTasks, c.StudentIDs, s.cohortWindow),
		Assignments: summarizeAssignments(classTasks),
	}, nil
}

// summarizeAssignments collapses per-student copies into one row per
// title and due date, ordered by due date then title.
func summarizeAssignments(tasks []workload.Task) []AssignmentSummary {
	type key struct {
		title string
		due   string
	}
	index := make(map[key]int)
	out := make([]AssignmentSummary, 0)

	for _, t := range tasks {
		k := key{title: t.Title}
		if t.DueDate != nil {
			k.due = t.DueDate.Format(workload.DateLayout)
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, AssignmentSummary{Title: t.Title, DueDate: t.DueDate, StressScore: t.StressScore})
		}
		out[i].Students++
		if t.IsCompleted {
			out[i].Completed++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil && b == nil:
			return out[i].Title < out[j].Title
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		default:
			return out[i].Title < out[j].Title
		}
	})
	return out
}
