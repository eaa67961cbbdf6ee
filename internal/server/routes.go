package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Student
	s.route(mux, "GET /api/dashboard", RoleStudent, s.handleDashboard)
	s.route(mux, "GET /api/tasks/overdue", RoleStudent, s.handleOverdue)
	s.route(mux, "POST /api/tasks", RoleStudent, s.handleCreateTask)
	s.route(mux, "PATCH /api/tasks/{id}/pulse", RoleStudent, s.handleSetPulse)
	s.route(mux, "PATCH /api/tasks/{id}/completion", RoleStudent, s.handleSetCompletion)
	s.route(mux, "POST /api/classes/join", RoleStudent, s.handleJoinClass)
	s.route(mux, "POST /api/calendar", RoleStudent, s.handleImportCalendar)
	s.route(mux, "POST /api/simulate", RoleStudent, s.handleSimulate)

	// Teacher
	s.route(mux, "GET /api/classes", RoleTeacher, s.handleListClasses)
	s.route(mux, "POST /api/classes", RoleTeacher, s.handleCreateClass)
	s.route(mux, "GET /api/classes/{id}/dashboard", RoleTeacher, s.handleClassDashboard)
	s.route(mux, "POST /api/classes/{id}/assignments", RoleTeacher, s.handleAssign)

	// Any role
	s.route(mux, "POST /api/score", "", s.handleScore)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(s.instrument(s.recoverPanics(mux)))
}

// route registers an authenticated endpoint. An empty role admits any caller.
func (s *Server) route(mux *http.ServeMux, pattern string, role Role, h func(http.ResponseWriter, *http.Request, Identity)) {
	mux.Handle(pattern, s.requireAuth(as(role, h)))
}
