package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/studypulse/pulse/internal/config"
	"github.com/studypulse/pulse/internal/server"
)

var (
	tokenUser string
	tokenRole string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for a local identity",
	Long: `Sign a bearer token with auth.jwtSecret for development and scripting.

Example:
  pulse token --user teacher-1 --role teacher`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := server.ParseRole(tokenRole)
		if err != nil {
			return err
		}
		settings, err := config.LoadServer()
		if err != nil {
			return err
		}
		auth := server.NewAuthenticator(settings.JWTSecret, settings.TokenTTL)
		tok, err := auth.Issue(tokenUser, role)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"token":     tok,
			"user":      tokenUser,
			"role":      role,
			"expiresAt": time.Now().Add(settings.TokenTTL).UTC().Format(time.RFC3339),
		})
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user ID (token subject)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "student", "student or teacher")
	_ = tokenCmd.MarkFlagRequired("user")
}
