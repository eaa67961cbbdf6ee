package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/studypulse/pulse/internal/config"
)

type tierView struct {
	Name      string  `json:"name"`
	Provider  string  `json:"provider"`
	Model     string  `json:"model"`
	BaseURL   string  `json:"baseUrl,omitempty"`
	HasAPIKey bool    `json:"hasApiKey"`
	Timeout   string  `json:"timeout"`
	RateLimit float64 `json:"rateLimit"`
	Burst     int     `json:"burst"`
}

type configView struct {
	ConfigFile string                `json:"configFile,omitempty"`
	Tiers      []tierView            `json:"tiers"`
	Engine     config.EngineSettings `json:"engine"`
	StorePath  string                `json:"storePath"`
	Telemetry  bool                  `json:"telemetry"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the oracle tiers, engine settings and store path after merging
defaults, .pulse.yaml, .env and PULSE_* variables. API keys are never
printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgs, err := config.LoadTierConfigs()
		if err != nil {
			return err
		}
		engine, err := config.LoadEngine()
		if err != nil {
			return err
		}

		view := configView{
			ConfigFile: viper.ConfigFileUsed(),
			Tiers:      make([]tierView, 0, len(cfgs)),
			Engine:     engine,
			StorePath:  config.StorePath(),
			Telemetry:  viper.GetBool("telemetry.enabled"),
		}
		for _, c := range cfgs {
			view.Tiers = append(view.Tiers, tierView{
				Name:      c.Name,
				Provider:  string(c.LLM.Provider),
				Model:     c.LLM.Model,
				BaseURL:   c.LLM.BaseURL,
				HasAPIKey: c.LLM.APIKey != "",
				Timeout:   c.Options.Timeout.String(),
				RateLimit: c.Options.RateLimit,
				Burst:     c.Options.Burst,
			})
		}
		return printJSON(cmd.OutOrStdout(), view)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
