// Package app is the service layer between the HTTP/CLI adapters and the
// store and engine. Identity is always an explicit parameter; the caller
// (server middleware or CLI flag) is responsible for establishing it.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/studypulse/pulse/internal/oracle"
	"github.com/studypulse/pulse/internal/workload"
)

// ErrForbidden is returned when the caller may not act on a class or task.
var ErrForbidden = errors.New("forbidden")

// Repository is the persistence the service needs. *store.Store satisfies it.
type Repository interface {
	CreateTask(ctx context.Context, t *workload.Task) error
	CreateTasks(ctx context.Context, tasks []workload.Task) error
	GetTask(ctx context.Context, id string) (workload.Task, error)
	ListTasksByOwner(ctx context.Context, ownerID string) ([]workload.Task, error)
	ListTasksByOwners(ctx context.Context, ownerIDs []string) ([]workload.Task, error)
	ListTasksByClass(ctx context.Context, classID string) ([]workload.Task, error)
	FindTaskByTitle(ctx context.Context, ownerID, title string) (workload.Task, error)
	SetIncludeInPulse(ctx context.Context, ownerID, taskID string, include bool) error
	SetCompleted(ctx context.Context, ownerID, taskID string, completed bool) error
	AttachClass(ctx context.Context, ownerID, taskID, classID string) error

	CreateClass(ctx context.Context, teacherID, name string) (workload.Class, error)
	GetClass(ctx context.Context, id string) (workload.Class, error)
	ListTeacherClasses(ctx context.Context, teacherID string) ([]workload.Class, error)
	ListStudentClasses(ctx context.Context, studentID string) ([]workload.Class, error)
	JoinClass(ctx context.Context, studentID, code string) (workload.Class, error)
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Oracle       *oracle.Orchestrator
	Clock        workload.Clock
	Window       workload.WindowPolicy
	CohortWindow workload.WindowPolicy
	Events       oracle.EventRecorder
	Logger       *slog.Logger
}

// Service implements every user-facing operation.
type Service struct {
	repo         Repository
	aggregator   *workload.Aggregator
	prioritizer  *workload.Prioritizer
	scorer       *workload.Scorer
	insighter    *workload.Insighter
	simulator    *workload.Simulator
	clock        workload.Clock
	window       workload.WindowPolicy
	cohortWindow workload.WindowPolicy
	events       oracle.EventRecorder
	logger       *slog.Logger
}

// NewService wires the engine around repo. A nil Oracle answers every
// oracle-backed call locally.
func NewService(repo Repository, opts Options) *Service {
	if opts.Window == (workload.WindowPolicy{}) {
		opts.Window = workload.DefaultWindowPolicy()
	}
	if opts.CohortWindow == (workload.WindowPolicy{}) {
		opts.CohortWindow = workload.CohortWindowPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Service{
		repo:         repo,
		aggregator:   workload.NewAggregator(opts.Clock),
		prioritizer:  workload.NewPrioritizer(opts.Oracle, opts.Clock),
		scorer:       workload.NewScorer(opts.Oracle),
		insighter:    workload.NewInsighter(opts.Oracle),
		simulator:    workload.NewSimulator(opts.Oracle, opts.Clock, opts.Window),
		clock:        opts.Clock,
		window:       opts.Window,
		cohortWindow: opts.CohortWindow,
		events:       opts.Events,
		logger:       opts.Logger,
	}
}

func (s *Service) track(event string, props map[string]any) {
	if s.events != nil {
		s.events.Track(event, props)
	}
}

// Score runs the stress scorer without storing anything.
func (s *Service) Score(ctx context.Context, title, description string) workload.StressAssessment {
	return s.scorer.Score(ctx, title, description)
}

// ScoreBatch scores several tasks concurrently, results in input order.
func (s *Service) ScoreBatch(ctx context.Context, reqs []workload.ScoreRequest) []workload.StressAssessment {
	return s.scorer.ScoreBatch(ctx, reqs)
}
