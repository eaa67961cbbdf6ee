package oracle

import (
	"context"
	"log/slog"

	"github.com/studypulse/pulse/internal/llm"
)

// TierConfig describes one remote tier to construct.
type TierConfig struct {
	Name    string
	LLM     llm.Config
	Options TierOptions
}

// NewTiers constructs chat tiers in order. A tier whose model cannot be
// built (missing key, unknown provider) is omitted with a warning.
func NewTiers(ctx context.Context, cfgs []TierConfig, logger *slog.Logger) []Tier {
	if logger == nil {
		logger = slog.Default()
	}

	tiers := make([]Tier, 0, len(cfgs))
	for _, cfg := range cfgs {
		chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
		if err != nil {
			logger.Warn("oracle tier disabled", "tier", cfg.Name, "provider", cfg.LLM.Provider, "error", err)
			continue
		}
		tier, err := NewChatTier(ctx, cfg.Name, chatModel, cfg.Options)
		if err != nil {
			logger.Warn("oracle tier disabled", "tier", cfg.Name, "error", err)
			continue
		}
		tiers = append(tiers, tier)
	}
	return tiers
}
