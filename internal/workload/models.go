// Package workload holds the task model and the engine that turns a task
// list into a risk index, an execution order and stress judgments.
//
// Aggregation and local ranking are pure functions of their inputs and an
// injected clock. Oracle-backed operations always terminate with a labelled
// result; only input validation returns errors.
package workload

import (
	"time"

	"github.com/studypulse/pulse/internal/oracle"
)

// Kind distinguishes class assignments from self-authored tasks.
type Kind string

const (
	KindInstitutional Kind = "INSTITUTIONAL"
	KindPersonal      Kind = "PERSONAL"
)

// Task is one unit of academic work owned by exactly one student.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
	OwnerID     string `json:"ownerId"`
	ClassID     string `json:"classId,omitempty"`
	// DueDate is a calendar date at UTC midnight; nil when absent.
	DueDate        *time.Time `json:"dueDate,omitempty"`
	StressScore    int        `json:"stressScore"`
	IncludeInPulse bool       `json:"includeInPulse"`
	IsPrivate      bool       `json:"isPrivate"`
	IsCompleted    bool       `json:"isCompleted"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// HasDueDate reports whether the task carries a due date.
func (t Task) HasDueDate() bool { return t.DueDate != nil }

// CountsTowardLoad reports whether the inclusion rules admit the task into
// aggregate load. Institutional tasks always count.
func (t Task) CountsTowardLoad() bool {
	return t.IncludeInPulse || t.Kind == KindInstitutional
}

// CohortVisible reports whether the task may appear in a class-wide view.
func (t Task) CohortVisible() bool {
	return !t.IsPrivate || t.IncludeInPulse
}

// Class is a cohort with a join code.
type Class struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	TeacherIDs []string  `json:"teacherIds"`
	StudentIDs []string  `json:"studentIds"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HasTeacher reports whether id owns the class.
func (c Class) HasTeacher(id string) bool { return contains(c.TeacherIDs, id) }

// HasStudent reports whether id is enrolled.
func (c Class) HasStudent(id string) bool { return contains(c.StudentIDs, id) }

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Source labels which rung of the degrade chain produced a result.
type Source = oracle.Source

const (
	SourcePrimary   = oracle.SourcePrimary
	SourceSecondary = oracle.SourceSecondary
	SourceLocal     = oracle.SourceLocal
)

// RiskTier is a coarse classification of aggregate load.
type RiskTier string

const (
	RiskOptimal  RiskTier = "OPTIMAL"
	RiskModerate RiskTier = "MODERATE"
	RiskCritical RiskTier = "CRITICAL"
)

// BucketMode selects the time-bucket granularity.
type BucketMode string

const (
	BucketsDaily  BucketMode = "daily"
	BucketsWeekly BucketMode = "weekly"
)

// WindowPolicy bounds which due dates are relevant and how load is bucketed.
type WindowPolicy struct {
	PastDays   int        `json:"pastDays"`
	FutureDays int        `json:"futureDays"`
	Buckets    BucketMode `json:"buckets"`
}

// TimeBucket is the summed load of one day or week. Load is capped at 100
// for display; RawLoad keeps the uncapped sum.
type TimeBucket struct {
	Label   string    `json:"label"`
	Start   time.Time `json:"start"`
	Load    int       `json:"load"`
	RawLoad int       `json:"rawLoad"`
}

// AggregateStats is the risk index for a task set.
type AggregateStats struct {
	Score           int          `json:"score"`
	RiskTier        RiskTier     `json:"riskTier"`
	ActiveTaskCount int          `json:"activeTaskCount"`
	TotalLoad       int          `json:"totalLoad"`
	Readiness       int          `json:"readiness"`
	TimeBuckets     []TimeBucket `json:"timeBuckets"`
}

// StudentLoad is one roster entry in a cohort view.
type StudentLoad struct {
	StudentID        string   `json:"studentId"`
	Score            int      `json:"score"`
	RiskTier         RiskTier `json:"riskTier"`
	TotalLoad        int      `json:"totalLoad"`
	ActiveTaskCount  int      `json:"activeTaskCount"`
	HasPersonalTasks bool     `json:"hasPersonalTasks"`
}

// CohortStats is the class-wide view plus the per-student breakdown.
type CohortStats struct {
	Class    AggregateStats `json:"class"`
	Students []StudentLoad  `json:"students"`
}

// ExecutionStep is one entry of an execution order.
type ExecutionStep struct {
	TaskID   string `json:"taskId"`
	Sequence int    `json:"sequence"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// PrioritizationResult is a dense 1..N execution order.
type PrioritizationResult struct {
	ExecutionOrder []ExecutionStep `json:"executionOrder"`
	DailyStrategy  string          `json:"dailyStrategy"`
	Source         Source          `json:"source"`
}

// StressAssessment is a stress judgment for one task.
type StressAssessment struct {
	Score          int     `json:"score"`
	Justification  string  `json:"justification"`
	EstimatedHours float64 `json:"estimatedHours"`
	Source         Source  `json:"source"`
}

// Insight is a short wellness note for a dashboard.
type Insight struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}
