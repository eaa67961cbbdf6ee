package server

import (
	"github.com/studypulse/pulse/internal/calendar"
	"github.com/studypulse/pulse/internal/workload"
)

// PulseRequest is the payload for PATCH /api/tasks/{id}/pulse
type PulseRequest struct {
	IncludeInPulse *bool `json:"includeInPulse"`
}

// CompletionRequest is the payload for PATCH /api/tasks/{id}/completion
type CompletionRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

// CreateClassRequest is the payload for POST /api/classes
type CreateClassRequest struct {
	Name string `json:"name"`
}

// JoinClassRequest is the payload for POST /api/classes/join
type JoinClassRequest struct {
	Code string `json:"code"`
}

// ScoreRequest is the payload for POST /api/score. When Tasks is set the
// batch is scored and Title/Description are ignored.
type ScoreRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Tasks       []workload.ScoreRequest `json:"tasks,omitempty"`
}

// ImportCalendarRequest is the payload for POST /api/calendar. Without
// entries the built-in exam calendar is imported.
type ImportCalendarRequest struct {
	ClassID string           `json:"classId"`
	Entries []calendar.Entry `json:"entries"`
}

// SimulateRequest is the payload for POST /api/simulate
type SimulateRequest struct {
	TaskID    string `json:"taskId"`
	DelayDays int    `json:"delayDays"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
