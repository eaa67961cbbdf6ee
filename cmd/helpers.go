package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/studypulse/pulse/internal/config"
	"github.com/studypulse/pulse/internal/oracle"
	"github.com/studypulse/pulse/internal/telemetry"
	"github.com/studypulse/pulse/internal/workload"
)

// appFs is the filesystem commands read input files from. Tests swap in a
// MemMapFs.
var appFs = afero.NewOsFs()

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readTasks decodes a JSON array of task records from path.
func readTasks(path string) ([]workload.Task, error) {
	data, err := afero.ReadFile(appFs, path)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return workload.DecodeTasks(data)
}

// loadEngine returns the engine settings and a clock in their timezone.
func loadEngine() (config.EngineSettings, workload.Clock, error) {
	settings, err := config.LoadEngine()
	if err != nil {
		return config.EngineSettings{}, workload.Clock{}, err
	}
	clock, err := settings.Clock()
	if err != nil {
		return config.EngineSettings{}, workload.Clock{}, err
	}
	return settings, clock, nil
}

// newTelemetry returns a PostHog client when telemetry is enabled, and a
// no-op client otherwise. Disabled telemetry never touches the state file.
func newTelemetry() (telemetry.Client, error) {
	settings, err := config.LoadTelemetry()
	if err != nil {
		return nil, err
	}
	if !settings.Enabled {
		return telemetry.NewNoopClient(), nil
	}
	state, err := telemetry.Load(true)
	if err != nil {
		return nil, fmt.Errorf("load telemetry state: %w", err)
	}
	return telemetry.New(telemetry.ClientConfig{
		APIKey:   settings.APIKey,
		Version:  GetVersion(),
		Config:   state,
		Endpoint: settings.Endpoint,
	})
}

// newOrchestrator builds the remote tiers from llm.* settings.
func newOrchestrator(ctx context.Context, events oracle.EventRecorder) (*oracle.Orchestrator, error) {
	cfgs, err := config.LoadTierConfigs()
	if err != nil {
		return nil, err
	}
	logger := slog.Default()
	tiers := oracle.NewTiers(ctx, cfgs, logger)
	o := oracle.NewOrchestrator(tiers, oracle.WithLogger(logger), oracle.WithEvents(events))
	logger.Debug("oracle ready", "tiers", o.TierNames())
	return o, nil
}
