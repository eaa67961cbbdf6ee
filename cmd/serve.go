package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/studypulse/pulse/internal/app"
	"github.com/studypulse/pulse/internal/config"
	"github.com/studypulse/pulse/internal/logger"
	"github.com/studypulse/pulse/internal/server"
	"github.com/studypulse/pulse/internal/store"
	"github.com/studypulse/pulse/internal/telemetry"
	"github.com/studypulse/pulse/internal/workload"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the StudyPulse HTTP API.

Requires auth.jwtSecret (PULSE_AUTH_JWTSECRET). Tasks and classes are kept
in SQLite at store.path.

Examples:
  pulse serve
  pulse serve --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "API server port (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	defer logger.HandlePanic()

	if servePort != 0 {
		viper.Set("server.port", servePort)
	}
	srvSettings, err := config.LoadServer()
	if err != nil {
		return err
	}
	engine, clock, err := loadEngine()
	if err != nil {
		return err
	}

	storePath := config.StorePath()
	logger.SetBasePath(filepath.Dir(storePath))

	events, err := newTelemetry()
	if err != nil {
		return err
	}
	defer func() { _ = events.Close() }()

	orch, err := newOrchestrator(cmd.Context(), events)
	if err != nil {
		return err
	}

	st, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	cohortWindow := engine.Window()
	cohortWindow.Buckets = workload.BucketsWeekly
	svc := app.NewService(st, app.Options{
		Oracle:       orch,
		Clock:        clock,
		Window:       engine.Window(),
		CohortWindow: cohortWindow,
		Events:       events,
		Logger:       slog.Default(),
	})

	srv := server.New(svc, server.Config{
		Port:           srvSettings.Port,
		AllowedOrigins: srvSettings.AllowedOrigins,
		JWTSecret:      srvSettings.JWTSecret,
		TokenTTL:       srvSettings.TokenTTL,
	}, slog.Default())

	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	srv.Start(&wg, errChan)
	events.Track(telemetry.EventServeStarted, map[string]any{"tiers": len(orch.TierNames())})
	slog.Info("pulse started", "store", storePath, "tiers", orch.TierNames())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig.String())
	case runErr = <-errChan:
		slog.Error("server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("server shutdown", "error", err)
	}
	wg.Wait()

	if runErr != nil {
		return fmt.Errorf("serve: %w", runErr)
	}
	return nil
}
