package cmd

import (
	"github.com/spf13/cobra"

	"github.com/studypulse/pulse/internal/telemetry"
	"github.com/studypulse/pulse/internal/workload"
)

var (
	prioritizeFile    string
	prioritizeOffline bool
)

var prioritizeCmd = &cobra.Command{
	Use:   "prioritize",
	Short: "Produce an execution order for a task file",
	Long: `Rank the open tasks in a JSON file (an array of task records).

With --offline the deterministic local formula is used and no oracle tier is
contacted.

Examples:
  pulse prioritize --file tasks.json
  pulse prioritize --file tasks.json --offline`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := readTasks(prioritizeFile)
		if err != nil {
			return err
		}
		_, clock, err := loadEngine()
		if err != nil {
			return err
		}

		open := make([]workload.Task, 0, len(tasks))
		for _, t := range tasks {
			if !t.IsCompleted {
				open = append(open, t)
			}
		}

		if prioritizeOffline {
			return printJSON(cmd.OutOrStdout(), workload.NewPrioritizer(nil, clock).PrioritizeLocal(open))
		}

		events, err := newTelemetry()
		if err != nil {
			return err
		}
		defer func() { _ = events.Close() }()
		events.Track(telemetry.EventCommandExecuted, map[string]any{"command": "prioritize"})

		orch, err := newOrchestrator(cmd.Context(), events)
		if err != nil {
			return err
		}
		res := workload.NewPrioritizer(orch, clock).Prioritize(cmd.Context(), open)
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(prioritizeCmd)
	prioritizeCmd.Flags().StringVarP(&prioritizeFile, "file", "f", "", "JSON task file")
	prioritizeCmd.Flags().BoolVar(&prioritizeOffline, "offline", false, "rank locally without contacting the oracle")
	_ = prioritizeCmd.MarkFlagRequired("file")
}
