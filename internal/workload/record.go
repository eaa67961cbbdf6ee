package workload

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidTask is returned when a record cannot become a Task.
var ErrInvalidTask = errors.New("invalid task")

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("nonempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// TaskRecord is the loosely-typed document shape at the store boundary.
// Every field may be absent.
type TaskRecord struct {
	ID             *string    `json:"id,omitempty"`
	Title          *string    `json:"title,omitempty" validate:"required,nonempty"`
	Description    *string    `json:"description,omitempty"`
	Type           *string    `json:"type,omitempty" validate:"omitempty,oneof=INSTITUTIONAL PERSONAL CLASS"`
	ClassID        *string    `json:"classId,omitempty"`
	StudentUID     *string    `json:"studentUid,omitempty"`
	DueDate        *string    `json:"dueDate,omitempty"`
	StressScore    *float64   `json:"stressScore,omitempty"`
	IncludeInPulse *bool      `json:"includeInPulse,omitempty"`
	IsPrivate      *bool      `json:"isPrivate,omitempty"`
	IsCompleted    *bool      `json:"isCompleted,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// ToTask converts the record, applying explicit defaults:
//   - missing type is PERSONAL; CLASS is an alias of INSTITUTIONAL
//   - a missing or unparsable due date is absent
//   - a missing stress score is the neutral 50; others are clamped to [0,100]
//   - institutional tasks are always included in pulse and need a class
func (r TaskRecord) ToTask() (Task, error) {
	if err := validate.Struct(r); err != nil {
		return Task{}, fmt.Errorf("%w: %s", ErrInvalidTask, describe(err))
	}

	t := Task{
		ID:          deref(r.ID),
		Title:       strings.TrimSpace(*r.Title),
		Description: deref(r.Description),
		Kind:        KindPersonal,
		OwnerID:     deref(r.StudentUID),
		ClassID:     strings.TrimSpace(deref(r.ClassID)),
		StressScore: FallbackScore,
	}

	if r.Type != nil {
		switch *r.Type {
		case "INSTITUTIONAL", "CLASS":
			t.Kind = KindInstitutional
		}
	}

	if r.DueDate != nil {
		if d, err := ParseDate(*r.DueDate); err == nil {
			t.DueDate = &d
		}
	}

	if r.StressScore != nil {
		t.StressScore = clampStress(*r.StressScore)
	}

	if r.IncludeInPulse != nil {
		t.IncludeInPulse = *r.IncludeInPulse
	}
	if r.IsPrivate != nil {
		t.IsPrivate = *r.IsPrivate
	}
	if r.IsCompleted != nil {
		t.IsCompleted = *r.IsCompleted
	}
	if r.CreatedAt != nil {
		t.CreatedAt = *r.CreatedAt
	}

	if t.Kind == KindInstitutional {
		if t.ClassID == "" {
			return Task{}, fmt.Errorf("%w: institutional task %q has no classId", ErrInvalidTask, t.Title)
		}
		t.IncludeInPulse = true
	}

	return t, nil
}

// DecodeTasks parses a JSON array of task records. Records without an id
// get a positional one ("task-1", ...).
func DecodeTasks(data []byte) ([]Task, error) {
	var records []TaskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]Task, 0, len(records))
	for i, rec := range records {
		t, err := rec.ToTask()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if t.ID == "" {
			t.ID = fmt.Sprintf("task-%d", i+1)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "nonempty":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// clampStress rounds v into [0,100] before converting, so values beyond the
// int range saturate instead of wrapping. NaN reads as the neutral score.
func clampStress(v float64) int {
	if math.IsNaN(v) {
		return FallbackScore
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
