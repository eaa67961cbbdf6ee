package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/studypulse/pulse/internal/llm"
	"github.com/studypulse/pulse/internal/oracle"
)

// LoadTierConfigs reads the primary and secondary tier settings.
// Precedence: explicit config > environment variables > defaults.
// Missing API keys are not an error here; the tier is dropped when its
// model cannot be constructed.
func LoadTierConfigs() ([]oracle.TierConfig, error) {
	if viper.GetBool("llm.disabled") {
		return nil, nil
	}

	rate := viper.GetFloat64("llm.rateLimit")
	burst := viper.GetInt("llm.rateBurst")
	baseURL := viper.GetString("llm.baseURL")

	var tiers []oracle.TierConfig
	for _, name := range []string{TierPrimary, TierSecondary} {
		provider := viper.GetString("llm." + name + ".provider")
		if provider == "" {
			provider = llm.DefaultProvider
		}
		p, err := llm.ValidateProvider(provider)
		if err != nil {
			return nil, fmt.Errorf("llm.%s: %w", name, err)
		}

		model := viper.GetString("llm." + name + ".model")
		if model == "" {
			if name == TierPrimary {
				model = llm.GetDefaultModelID(string(p))
			} else {
				model = llm.GetFallbackModelID(string(p))
			}
		}

		// Ollama serves arbitrary model names, so only hosted providers are checked.
		if inferred, ok := llm.InferProvider(model); ok && p != llm.ProviderOllama && inferred != string(p) {
			return nil, fmt.Errorf("llm.%s: model %q belongs to %s, not %s (known %s models: %s)",
				name, model, inferred, p, p, strings.Join(llm.ModelsForProvider(string(p)), ", "))
		}

		tierBaseURL := baseURL
		if tierBaseURL == "" && p == llm.ProviderOllama {
			tierBaseURL = llm.DefaultOllamaURL
		}

		tiers = append(tiers, oracle.TierConfig{
			Name: name,
			LLM: llm.Config{
				Provider: p,
				Model:    model,
				APIKey:   ResolveAPIKey(p),
				BaseURL:  tierBaseURL,
			},
			Options: oracle.TierOptions{
				Timeout:   viper.GetDuration("llm." + name + ".timeout"),
				RateLimit: rate,
				Burst:     burst,
			},
		})
	}
	return tiers, nil
}

// ResolveAPIKey returns the best API key for the given provider using
// the per-provider config key, then provider-specific env vars.
func ResolveAPIKey(provider llm.Provider) string {
	path := fmt.Sprintf("llm.apiKeys.%s", provider)
	if viper.IsSet(path) {
		if key := strings.TrimSpace(viper.GetString(path)); key != "" {
			return key
		}
	}
	return providerEnvKey(provider)
}

func providerEnvKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	default:
		return ""
	}
}
