package cmd

import (
	"github.com/spf13/cobra"

	"github.com/studypulse/pulse/internal/telemetry"
	"github.com/studypulse/pulse/internal/workload"
)

var (
	simulateFile    string
	simulateTask    string
	simulateDays    int
	simulateOffline bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Forecast the effect of delaying one task",
	Long: `Delay one task in a JSON task file by --days and compare the risk
index before and after the shift. The oracle adds a burnout forecast and an
alternative; with --offline the forecast is derived locally.

Examples:
  pulse simulate --file tasks.json --task essay-1 --days 3
  pulse simulate --file tasks.json --task essay-1 --offline`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := readTasks(simulateFile)
		if err != nil {
			return err
		}
		engine, clock, err := loadEngine()
		if err != nil {
			return err
		}

		if simulateOffline {
			res, err := workload.NewSimulator(nil, clock, engine.Window()).Simulate(cmd.Context(), tasks, simulateTask, simulateDays)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}

		events, err := newTelemetry()
		if err != nil {
			return err
		}
		defer func() { _ = events.Close() }()
		events.Track(telemetry.EventCommandExecuted, map[string]any{"command": "simulate"})

		orch, err := newOrchestrator(cmd.Context(), events)
		if err != nil {
			return err
		}
		res, err := workload.NewSimulator(orch, clock, engine.Window()).Simulate(cmd.Context(), tasks, simulateTask, simulateDays)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVarP(&simulateFile, "file", "f", "", "JSON task file")
	simulateCmd.Flags().StringVar(&simulateTask, "task", "", "id of the task to delay")
	simulateCmd.Flags().IntVar(&simulateDays, "days", 2, "delay in days (1-14)")
	simulateCmd.Flags().BoolVar(&simulateOffline, "offline", false, "forecast locally without contacting the oracle")
	_ = simulateCmd.MarkFlagRequired("file")
	_ = simulateCmd.MarkFlagRequired("task")
}
