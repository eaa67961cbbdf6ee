package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studypulse/pulse/internal/app"
	"github.com/studypulse/pulse/internal/calendar"
	"github.com/studypulse/pulse/internal/config"
	"github.com/studypulse/pulse/internal/store"
)

var (
	seedStudent string
	seedFile    string
	seedClass   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import an academic calendar for a student",
	Long: `Add calendar entries as tasks for a student. Titles the student already
has are skipped, so seeding twice is safe. Without --file the built-in
university exam calendar is used.

Examples:
  pulse seed --student stu-42
  pulse seed --student stu-42 --file exams.yaml --class class-123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(seedStudent) == "" {
			return errors.New("--student is required")
		}

		entries := calendar.Default()
		if seedFile != "" {
			var err error
			if entries, err = calendar.Load(appFs, seedFile); err != nil {
				return err
			}
		}

		_, clock, err := loadEngine()
		if err != nil {
			return err
		}
		events, err := newTelemetry()
		if err != nil {
			return err
		}
		defer func() { _ = events.Close() }()

		st, err := store.Open(config.StorePath())
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		svc := app.NewService(st, app.Options{Clock: clock, Events: events})
		res, err := svc.ImportCalendar(cmd.Context(), seedStudent, seedClass, entries)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedStudent, "student", "", "student user ID")
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML calendar file (default: built-in exam calendar)")
	seedCmd.Flags().StringVar(&seedClass, "class", "", "link entries to this class (student must be enrolled)")
}
