package llm

import (
	"context"
	"strings"
	"testing"
)

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     Provider
		wantErr  bool
	}{
		{name: "valid gemini", provider: "gemini", want: ProviderGemini},
		{name: "valid openai", provider: "openai", want: ProviderOpenAI},
		{name: "valid anthropic", provider: "anthropic", want: ProviderAnthropic},
		{name: "valid ollama", provider: "ollama", want: ProviderOllama},
		{name: "invalid provider", provider: "invalid", wantErr: true},
		{name: "empty provider", provider: "", wantErr: true},
		{name: "case sensitive - GEMINI fails", provider: "GEMINI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProvider(tt.provider)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProvider(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ValidateProvider(%q) = %v, want %v", tt.provider, got, tt.want)
			}
		})
	}
}

func TestGetDefaultModelID(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{provider: "gemini", want: "gemini-3-flash-preview"},
		{provider: "openai", want: "gpt-5-mini"},
		{provider: "anthropic", want: "claude-sonnet-4-5"},
		{provider: "ollama", want: "llama3.2"},
		{provider: "unknown", want: ""},
		{provider: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			if got := GetDefaultModelID(tt.provider); got != tt.want {
				t.Errorf("GetDefaultModelID(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}

func TestGetFallbackModelID(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{provider: "gemini", want: "gemini-2.5-flash-lite"},
		{provider: "openai", want: "gpt-5-nano"},
		{provider: "anthropic", want: "claude-haiku-4-5"},
		{provider: "ollama", want: "llama3.2"},
		{provider: "unknown", want: ""},
	}

	for _, tt := range tests {
		if got := GetFallbackModelID(tt.provider); got != tt.want {
			t.Errorf("GetFallbackModelID(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestNewChatModel_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "gemini requires API key",
			cfg:     Config{Provider: ProviderGemini, Model: "gemini-2.5-flash"},
			wantErr: "gemini API key is required",
		},
		{
			name:    "openai requires API key",
			cfg:     Config{Provider: ProviderOpenAI, Model: "gpt-5-mini"},
			wantErr: "OpenAI API key is required",
		},
		{
			name:    "anthropic requires API key",
			cfg:     Config{Provider: ProviderAnthropic, Model: "claude-haiku-4-5"},
			wantErr: "anthropic API key is required",
		},
		{
			name:    "unsupported provider",
			cfg:     Config{Provider: "unknown", Model: "model", APIKey: "key"},
			wantErr: "unsupported LLM provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChatModel(ctx, tt.cfg)
			if err == nil {
				t.Fatalf("NewChatModel() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewChatModel() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestModelsForProvider_DefaultFirst(t *testing.T) {
	got := ModelsForProvider(ProviderGemini)
	if len(got) == 0 {
		t.Fatal("ModelsForProvider(gemini) returned nothing")
	}
	if got[0] != "gemini-3-flash-preview" {
		t.Errorf("first model = %q, want default gemini-3-flash-preview", got[0])
	}
}
