// Package server exposes the service layer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/studypulse/pulse/internal/app"
)

// Config configures the HTTP server.
type Config struct {
	Port           int
	AllowedOrigins []string
	JWTSecret      string
	TokenTTL       time.Duration
}

// Server is the HTTP API.
type Server struct {
	svc     *app.Service
	auth    *Authenticator
	logger  *slog.Logger
	origins []string
	server  *http.Server
}

// New builds the server and its routes.
func New(svc *app.Service, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		svc:     svc,
		auth:    NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL),
		logger:  logger,
		origins: cfg.AllowedOrigins,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler (for tests and embedding).
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves in the background. Errors other than a clean shutdown are
// sent to errChan.
func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.logger.Info("api listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
