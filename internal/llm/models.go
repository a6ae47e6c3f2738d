package llm

import (
	"fmt"
	"sort"
	"strings"
)

// Model describes a chat model PlanWise can generate plans with.
type Model struct {
	ID          string   // Canonical model ID (e.g., "gemini-2.5-flash")
	Provider    string   // Provider display name (e.g., "Google")
	ProviderID  string   // Internal provider ID (e.g., "gemini")
	Aliases     []string // Alternative IDs including dated versions
	InputPer1M  float64  // $ per 1M input tokens
	OutputPer1M float64  // $ per 1M output tokens
	IsDefault   bool     // Whether this is the default model for its provider
}

// ModelRegistry is the single source of truth for known models.
// Unknown model IDs are still accepted; the registry only drives defaults,
// provider inference and `planwise models`.
var ModelRegistry = []Model{
	// Google Gemini
	{
		ID:          "gemini-2.5-flash",
		Provider:    "Google",
		ProviderID:  ProviderGemini,
		InputPer1M:  0.30,
		OutputPer1M: 2.50,
		IsDefault:   true,
	},
	{
		ID:          "gemini-2.5-pro",
		Provider:    "Google",
		ProviderID:  ProviderGemini,
		InputPer1M:  1.25,
		OutputPer1M: 10.00,
	},
	{
		ID:          "gemini-2.0-flash",
		Provider:    "Google",
		ProviderID:  ProviderGemini,
		InputPer1M:  0.10,
		OutputPer1M: 0.40,
	},

	// OpenAI
	{
		ID:          "gpt-4.1-mini",
		Provider:    "OpenAI",
		ProviderID:  ProviderOpenAI,
		Aliases:     []string{"gpt-4.1-mini-2025-04-14"},
		InputPer1M:  0.40,
		OutputPer1M: 1.60,
		IsDefault:   true,
	},
	{
		ID:          "gpt-4o",
		Provider:    "OpenAI",
		ProviderID:  ProviderOpenAI,
		Aliases:     []string{"gpt-4o-2024-08-06"},
		InputPer1M:  2.50,
		OutputPer1M: 10.00,
	},

	// Anthropic
	{
		ID:          "claude-haiku-4-5",
		Provider:    "Anthropic",
		ProviderID:  ProviderAnthropic,
		Aliases:     []string{"claude-haiku-4-5-20251001"},
		InputPer1M:  1.00,
		OutputPer1M: 5.00,
		IsDefault:   true,
	},
	{
		ID:          "claude-sonnet-4-5",
		Provider:    "Anthropic",
		ProviderID:  ProviderAnthropic,
		Aliases:     []string{"claude-sonnet-4-5-20250929"},
		InputPer1M:  3.00,
		OutputPer1M: 15.00,
	},

	// Ollama (local, no pricing)
	{
		ID:         "llama3.2",
		Provider:   "Ollama",
		ProviderID: ProviderOllama,
		IsDefault:  true,
	},
}

// modelIndex is built at init time for fast lookups
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

// GetDefaultModelID returns the default model for a provider, or "".
func GetDefaultModelID(providerID string) string {
	for _, m := range ModelRegistry {
		if m.ProviderID == providerID && m.IsDefault {
			return m.ID
		}
	}
	return ""
}

// InferProvider determines the provider from a model name.
func InferProvider(modelID string) (string, bool) {
	if m := GetModel(modelID); m != nil {
		return m.ProviderID, true
	}

	switch {
	case strings.HasPrefix(modelID, "gpt-"), strings.HasPrefix(modelID, "o1-"), strings.HasPrefix(modelID, "o3-"):
		return ProviderOpenAI, true
	case strings.HasPrefix(modelID, "claude-"):
		return ProviderAnthropic, true
	case strings.HasPrefix(modelID, "gemini-"):
		return ProviderGemini, true
	case strings.HasPrefix(modelID, "llama"), strings.HasPrefix(modelID, "mistral"), strings.HasPrefix(modelID, "phi"):
		return ProviderOllama, true
	}

	return "", false
}

// ModelOption is a registry row prepared for display.
type ModelOption struct {
	ID        string
	Provider  string
	PriceInfo string
	IsDefault bool
}

// ListModels returns display rows for one provider, or all providers when
// providerID is empty. Defaults come first within a provider.
func ListModels(providerID string) []ModelOption {
	var options []ModelOption
	for _, m := range ModelRegistry {
		if providerID != "" && m.ProviderID != providerID {
			continue
		}
		options = append(options, ModelOption{
			ID:        m.ID,
			Provider:  m.ProviderID,
			PriceInfo: formatPriceInfo(m.InputPer1M, m.OutputPer1M),
			IsDefault: m.IsDefault,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Provider != options[j].Provider {
			return options[i].Provider < options[j].Provider
		}
		if options[i].IsDefault != options[j].IsDefault {
			return options[i].IsDefault
		}
		return options[i].ID < options[j].ID
	})
	return options
}

func formatPriceInfo(input, output float64) string {
	if input == 0 && output == 0 {
		return "local/free"
	}
	return fmt.Sprintf("$%.2f/$%.2f per 1M tokens", input, output)
}
