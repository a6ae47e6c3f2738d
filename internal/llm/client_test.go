package llm

import (
	"context"
	"testing"
	"time"
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

func TestDefaultModelForProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{ProviderGemini, "gemini-2.5-flash"},
		{ProviderOpenAI, "gpt-4.1-mini"},
		{ProviderAnthropic, "claude-haiku-4-5"},
		{ProviderOllama, "llama3.2"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			if got := DefaultModelForProvider(tt.provider); got != tt.want {
				t.Errorf("DefaultModelForProvider(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderGemini)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Temperature != DefaultTemperature || cfg.TopK != DefaultTopK || cfg.TopP != DefaultTopP {
		t.Errorf("sampling defaults not applied: %+v", cfg)
	}
	if cfg.MaxOutputTokens != DefaultMaxOutputTokens {
		t.Errorf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}

	ollama := Config{Provider: ProviderOllama, Temperature: 0.2, Timeout: time.Second}.WithDefaults()
	if ollama.BaseURL != DefaultOllamaURL {
		t.Errorf("ollama BaseURL = %q, want %q", ollama.BaseURL, DefaultOllamaURL)
	}
	if ollama.Temperature != 0.2 || ollama.Timeout != time.Second {
		t.Errorf("explicit values overwritten: %+v", ollama)
	}
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	for _, p := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		t.Run(string(p), func(t *testing.T) {
			if !RequiresAPIKey(p) {
				t.Fatalf("RequiresAPIKey(%q) = false", p)
			}
			g, err := NewGenerator(context.Background(), Config{Provider: p})
			if err == nil {
				t.Fatalf("NewGenerator(%q) without key succeeded", p)
			}
			if g != nil {
				t.Errorf("NewGenerator(%q) returned non-nil generator on error", p)
			}
		})
	}
	if RequiresAPIKey(ProviderOllama) {
		t.Error("RequiresAPIKey(ollama) = true")
	}
}

func TestNewGenerator_UnsupportedProvider(t *testing.T) {
	if _, err := NewGenerator(context.Background(), Config{Provider: "bedrock", APIKey: "k"}); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestInferProvider(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider string
		wantOk       bool
	}{
		{"gemini-2.5-flash", ProviderGemini, true},
		{"gemini-1.5-pro", ProviderGemini, true},
		{"gpt-4o-2024-08-06", ProviderOpenAI, true},
		{"gpt-5", ProviderOpenAI, true},
		{"claude-sonnet-4-5-20250929", ProviderAnthropic, true},
		{"llama3.1:8b", ProviderOllama, true},
		{"mistral", ProviderOllama, true},
		{"some-random-model", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			provider, ok := InferProvider(tt.model)
			if ok != tt.wantOk || provider != tt.wantProvider {
				t.Errorf("InferProvider(%q) = %q, %v; want %q, %v", tt.model, provider, ok, tt.wantProvider, tt.wantOk)
			}
		})
	}
}

func TestListModels(t *testing.T) {
	all := ListModels("")
	if len(all) != len(ModelRegistry) {
		t.Fatalf("ListModels(\"\") returned %d rows, want %d", len(all), len(ModelRegistry))
	}

	gemini := ListModels(ProviderGemini)
	if len(gemini) == 0 || !gemini[0].IsDefault {
		t.Fatalf("default gemini model should be listed first: %+v", gemini)
	}
	for _, m := range gemini {
		if m.Provider != ProviderGemini {
			t.Errorf("unexpected provider %q in gemini listing", m.Provider)
		}
	}

	for _, m := range ListModels(ProviderOllama) {
		if m.PriceInfo != "local/free" {
			t.Errorf("ollama PriceInfo = %q", m.PriceInfo)
		}
	}
}

func TestEstimateTokensAndCost(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(\"\") = %d", got)
	}
	if got := EstimateTokens("abcde"); got != 2 {
		t.Errorf("EstimateTokens(abcde) = %d, want 2", got)
	}
	if got := EstimateCost("unknown-model", "hello", "world"); got != 0 {
		t.Errorf("EstimateCost(unknown) = %v", got)
	}
	if got := EstimateCost("gemini-2.5-flash", "hello world", "a plan"); got <= 0 {
		t.Errorf("EstimateCost(gemini-2.5-flash) = %v, want > 0", got)
	}
	if got := EstimateCost("llama3.2", "hello world", "a plan"); got != 0 {
		t.Errorf("EstimateCost(llama3.2) = %v, want 0", got)
	}
}
