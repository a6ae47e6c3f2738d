// Package llm provides the plan generation collaborator: a single
// prompt-in, text-out interface over Gemini (google.golang.org/genai) and the
// CloudWeGo Eino chat models for OpenAI, Anthropic and Ollama.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider identifies the LLM provider to use.
type Provider string

// Config holds configuration for creating a Generator. The API key is passed
// in explicitly; this package never reads the environment.
type Config struct {
	Provider        Provider
	Model           string
	APIKey          string // Required for Gemini, OpenAI and Anthropic
	BaseURL         string // Ollama server or an OpenAI-compatible endpoint
	Temperature     float32
	TopK            int
	TopP            float32
	MaxOutputTokens int
	Timeout         time.Duration
}

// WithDefaults fills unset generation parameters with the package defaults.
func (c Config) WithDefaults() Config {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		c.Model = DefaultModelForProvider(string(c.Provider))
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.TopK == 0 {
		c.TopK = DefaultTopK
	}
	if c.TopP == 0 {
		c.TopP = DefaultTopP
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.BaseURL == "" && c.Provider == ProviderOllama {
		c.BaseURL = DefaultOllamaURL
	}
	return c
}

// Generator sends one prompt and returns the complete response text.
// Failures are *GenerationError values; a nil error always comes with
// non-empty text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGenerator creates a Generator for the configured provider.
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	cfg = cfg.WithDefaults()
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		g, err := NewGeminiGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil

	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return newEino(ctx, cfg)

	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key is required")
		}
		return newEino(ctx, cfg)

	case ProviderOllama:
		return newEino(ctx, cfg)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: gemini, openai, anthropic, ollama)", cfg.Provider)
	}
}

func newEino(ctx context.Context, cfg Config) (Generator, error) {
	g, err := NewEinoGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ValidateProvider checks if the given provider string is supported.
func ValidateProvider(p string) (Provider, error) {
	switch Provider(p) {
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	case ProviderOllama:
		return ProviderOllama, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", p)
	}
}

// RequiresAPIKey reports whether the provider needs an API key.
func RequiresAPIKey(p Provider) bool {
	return p != ProviderOllama
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
