package llm

import (
	"sort"
	"strings"
)

// Model describes a chat model the oracle tiers can run on.
type Model struct {
	ID         string   // Canonical model ID (e.g., "gemini-2.5-flash")
	ProviderID string   // Internal provider ID (e.g., "gemini")
	Aliases    []string // Alternative IDs including dated versions
	IsDefault  bool     // Default primary-tier model for its provider
	IsFallback bool     // Default secondary-tier model for its provider
}

// ModelRegistry lists the models with known-good JSON output for scoring and
// ranking. Unknown IDs still work; the registry only drives defaults.
var ModelRegistry = []Model{
	// Gemini
	{ID: "gemini-3-flash-preview", ProviderID: ProviderGemini, IsDefault: true},
	{ID: "gemini-3-pro-preview", ProviderID: ProviderGemini},
	{ID: "gemini-2.5-flash", ProviderID: ProviderGemini},
	{ID: "gemini-2.5-flash-lite", ProviderID: ProviderGemini, IsFallback: true},
	{ID: "gemini-2.5-pro", ProviderID: ProviderGemini},

	// OpenAI
	{ID: "gpt-5-mini", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-5-mini-2025-08-07"}, IsDefault: true},
	{ID: "gpt-5-nano", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-5-nano-2025-08-07"}, IsFallback: true},
	{ID: "gpt-4.1-mini", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4.1-mini-2025-04-14"}},

	// Anthropic
	{ID: "claude-sonnet-4-5", ProviderID: ProviderAnthropic, Aliases: []string{"claude-sonnet-4-5-20250929"}, IsDefault: true},
	{ID: "claude-haiku-4-5", ProviderID: ProviderAnthropic, Aliases: []string{"claude-haiku-4-5-20251001"}, IsFallback: true},

	// Ollama
	{ID: "llama3.2", ProviderID: ProviderOllama, IsDefault: true, IsFallback: true},
}

var modelIndex map[string]*Model

func init() {
	modelIndex = make(map[string]*Model)
	for i := range ModelRegistry {
		m := &ModelRegistry[i]
		modelIndex[m.ID] = m
		for _, alias := range m.Aliases {
			modelIndex[alias] = m
		}
	}
}

// GetModel returns the model definition for a given model ID or alias.
// Returns nil if the model is not found.
func GetModel(modelID string) *Model {
	return modelIndex[modelID]
}

// GetDefaultModelID returns the default primary-tier model ID for a provider.
func GetDefaultModelID(providerID string) string {
	for _, m := range ModelRegistry {
		if m.ProviderID == providerID && m.IsDefault {
			return m.ID
		}
	}
	return ""
}

// GetFallbackModelID returns the default secondary-tier model ID for a provider.
func GetFallbackModelID(providerID string) string {
	for _, m := range ModelRegistry {
		if m.ProviderID == providerID && m.IsFallback {
			return m.ID
		}
	}
	return GetDefaultModelID(providerID)
}

// InferProvider attempts to determine the provider from a model name.
// Returns the provider ID and true if inference succeeded.
func InferProvider(modelID string) (string, bool) {
	if m := GetModel(modelID); m != nil {
		return m.ProviderID, true
	}

	switch {
	case strings.HasPrefix(modelID, "gpt-"), strings.HasPrefix(modelID, "o1"),
		strings.HasPrefix(modelID, "o3"), strings.HasPrefix(modelID, "o4"):
		return ProviderOpenAI, true
	case strings.HasPrefix(modelID, "claude-"):
		return ProviderAnthropic, true
	case strings.HasPrefix(modelID, "gemini-"):
		return ProviderGemini, true
	case strings.HasPrefix(modelID, "llama"), strings.HasPrefix(modelID, "mistral"),
		strings.HasPrefix(modelID, "qwen"), strings.HasPrefix(modelID, "phi"):
		return ProviderOllama, true
	}

	return "", false
}

// ModelsForProvider returns the registered model IDs for a provider,
// defaults first.
func ModelsForProvider(providerID string) []string {
	var models []Model
	for _, m := range ModelRegistry {
		if m.ProviderID == providerID {
			models = append(models, m)
		}
	}
	sort.SliceStable(models, func(i, j int) bool {
		if models[i].IsDefault != models[j].IsDefault {
			return models[i].IsDefault
		}
		return models[i].ID < models[j].ID
	})
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	return ids
}
