package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/spf13/viper"
)

// LoadLLMConfig builds the generation config from v and the environment.
// Precedence: explicit config > provider environment variables > defaults.
// A model named without a provider selects the provider it belongs to.
func LoadLLMConfig(v *viper.Viper) (llm.Config, error) {
	// 1. Provider
	provider := v.GetString("llm.provider")
	model := v.GetString("llm.model")
	if provider == "" && model != "" {
		if inferred, ok := llm.InferProvider(model); ok {
			provider = inferred
		}
	}
	if provider == "" {
		provider = llm.DefaultProvider
	}

	llmProvider, err := llm.ValidateProvider(provider)
	if err != nil {
		return llm.Config{}, fmt.Errorf("invalid provider: %w", err)
	}

	// 2. Model
	if model == "" {
		model = llm.DefaultModelForProvider(string(llmProvider))
	}

	// 3. Base URL
	baseURL := v.GetString("llm.baseURL")
	if baseURL == "" && llmProvider == llm.ProviderOllama {
		baseURL = llm.DefaultOllamaURL
	}

	return llm.Config{
		Provider:        llmProvider,
		Model:           model,
		APIKey:          ResolveAPIKey(v, llmProvider),
		BaseURL:         baseURL,
		Temperature:     float32(v.GetFloat64("llm.temperature")),
		TopK:            v.GetInt("llm.topK"),
		TopP:            float32(v.GetFloat64("llm.topP")),
		MaxOutputTokens: v.GetInt("llm.maxOutputTokens"),
		Timeout:         time.Duration(v.GetInt("llm.timeoutSeconds")) * time.Second,
	}, nil
}

// ResolveAPIKey returns the API key for provider from llm.apiKeys.<provider>
// or the provider's environment variable.
func ResolveAPIKey(v *viper.Viper, provider llm.Provider) string {
	path := fmt.Sprintf("llm.apiKeys.%s", provider)
	if v.IsSet(path) {
		if key := strings.TrimSpace(v.GetString(path)); key != "" {
			return key
		}
	}
	return providerEnvKey(provider)
}

// ProviderEnvVars lists the environment variables checked for each keyed provider.
var ProviderEnvVars = map[llm.Provider][]string{
	llm.ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	llm.ProviderOpenAI:    {"OPENAI_API_KEY"},
	llm.ProviderAnthropic: {"ANTHROPIC_API_KEY"},
}

func providerEnvKey(provider llm.Provider) string {
	for _, name := range ProviderEnvVars[provider] {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

// MaskKey hides all but the last four characters of an API key.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
