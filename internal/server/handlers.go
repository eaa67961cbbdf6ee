package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/studypulse/pulse/internal/app"
	"github.com/studypulse/pulse/internal/calendar"
	"github.com/studypulse/pulse/internal/store"
	"github.com/studypulse/pulse/internal/workload"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, id Identity) {
	d, err := s.svc.StudentDashboard(r.Context(), id.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeAPIJSON(w, d)
}

func (s *Server) handleOverdue(w http.ResponseWriter, r *http.Request, id Identity) {
	tasks, err := s.svc.Overdue(r.Context(), id.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeAPIJSON(w, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, id Identity) {
	var rec workload.TaskRecord
	if !decodeBody(w, r, &rec) {
		return
	}
	task, err := s.svc.CreatePersonalTask(r.Context(), id.UserID, rec)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, task)
}

func (s *Server) handleSetPulse(w http.ResponseWriter, r *http.Request, id Identity) {
	var req PulseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IncludeInPulse == nil {
		writeError(w, http.StatusBadRequest, "includeInPulse is required")
		return
	}
	task, err := s.svc.SetIncludeInPulse(r.Context(), id.UserID, r.PathValue("id"), *req.IncludeInPulse)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeAPIJSON(w, task)
}

func (s *Server) handleSetCompletion(w http.ResponseWriter, r *http.Request, id Identity) {
	var req CompletionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IsCompleted == nil {
		writeError(w, http.StatusBadRequest, "isCompleted is required")
		return
	}
	task, err := s.svc.SetCompleted(r.Context(), id.UserID, r.PathValue("id"), *req.IsCompleted)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeAPIJSON(w, task)
}

func (s *Server) handleJoinClass(w http.ResponseWriter, r *http.Request, id Identity) {
	var req JoinClassRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	c, err := s.svc.JoinClass(r.Context(), id.UserID, req.Code)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeAPIJSON(w, c)
}

func (s *Server) handleImportCalendar(w http.ResponseWriter, r *http.Request, id Identity) {
	var req ImportCalendarRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entries := calendar.Default()
	if len(req.Entries) > 0 {
		entries = req.Entries
		if err := calendar.Validate(entries); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	res, err := s.svc.ImportCalendar(r.Context(), id.UserID, req.ClassID, entries)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeAPIJSON(w, res)
}

func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request, id Identity) {
	classes, err := s.svc.TeacherClasses(r.Context(), id.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if classes == nil {
		classes = []workload.Class{}
	}
	writeAPIJSON(w, classes)
}

func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request, id Identity) {
	var req CreateClassRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := s.svc.CreateClass(r.Context(), id.UserID, req.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, c)
}

func (s *Server) handleClassDashboard(w http.ResponseWriter, r *http.Request, id Identity) {
	d, err := s.svc.ClassDashboard(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeAPIJSON(w, d)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request, id Identity) {
	var in app.AssignmentInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.svc.AssignToClass(r.Context(), id.UserID, r.PathValue("id"), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request, _ Identity) {
	var req ScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Tasks) > 0 {
		for i, t := range req.Tasks {
			if strings.TrimSpace(t.Title) == "" {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("tasks[%d]: title is required", i))
				return
			}
		}
		writeAPIJSON(w, s.svc.ScoreBatch(r.Context(), req.Tasks))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	writeAPIJSON(w, s.svc.Score(r.Context(), req.Title, req.Description))
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request, id Identity) {
	var req SimulateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.TaskID) == "" {
		writeError(w, http.StatusBadRequest, "taskId is required")
		return
	}
	res, err := s.svc.Simulate(r.Context(), id.UserID, req.TaskID, req.DelayDays)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeAPIJSON(w, res)
}

// decodeBody reads a JSON body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// writeServiceError maps sentinel errors to status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workload.ErrInvalidTask):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, store.ErrNotFound), errors.Is(err, workload.ErrUnknownTask):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeAPIJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONStatus(w, status, ErrorResponse{Error: msg})
}
