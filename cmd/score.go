package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studypulse/pulse/internal/telemetry"
	"github.com/studypulse/pulse/internal/workload"
)

var (
	scoreTitle       string
	scoreDescription string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Estimate the stress score of one task",
	Long: `Ask the oracle tiers for a 1-100 stress score, falling back to a
neutral local estimate when no tier answers.

Example:
  pulse score --title "Organic chemistry midterm" --description "Chapters 1-6"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(scoreTitle) == "" {
			return errors.New("--title is required")
		}
		events, err := newTelemetry()
		if err != nil {
			return err
		}
		defer func() { _ = events.Close() }()
		events.Track(telemetry.EventCommandExecuted, map[string]any{"command": "score"})

		orch, err := newOrchestrator(cmd.Context(), events)
		if err != nil {
			return err
		}
		res := workload.NewScorer(orch).Score(cmd.Context(), scoreTitle, scoreDescription)
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreTitle, "title", "", "task title")
	scoreCmd.Flags().StringVar(&scoreDescription, "description", "", "task description")
}
