package llm

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderGemini

	// ProviderGemini represents the Google Gemini provider
	ProviderGemini = "gemini"

	// ProviderOpenAI represents the OpenAI provider
	ProviderOpenAI = "openai"

	// ProviderAnthropic represents the Anthropic provider
	ProviderAnthropic = "anthropic"

	// ProviderOllama represents the Ollama provider
	ProviderOllama = "ollama"
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// DefaultMaxTokens bounds a single oracle answer. Claude requires an explicit value.
const DefaultMaxTokens = 2048
