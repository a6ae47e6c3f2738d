package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// contentModels is the part of *genai.Models the generator calls.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator calls the Gemini API directly so that prompt feedback and
// finish reasons are visible to the caller.
type GeminiGenerator struct {
	models contentModels
	cfg    Config
}

// NewGeminiGenerator creates a Gemini API client for cfg.
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{models: client.Models, cfg: cfg.WithDefaults()}, nil
}

// SafetySettings are the per-category thresholds sent with every request.
var SafetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
}

func (g *GeminiGenerator) generationConfig() *genai.GenerateContentConfig {
	temperature := g.cfg.Temperature
	topK := float32(g.cfg.TopK)
	topP := g.cfg.TopP
	return &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopK:            &topK,
		TopP:            &topP,
		MaxOutputTokens: int32(g.cfg.MaxOutputTokens),
		SafetySettings:  SafetySettings,
	}
}

// Generate sends prompt as a single user turn and returns the text of the
// first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), g.generationConfig())
	if err != nil {
		return "", requestError(ProviderGemini, err)
	}
	return geminiText(resp)
}

// blockingFinishReasons end a candidate without usable text for safety reasons.
var blockingFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety:            true,
	genai.FinishReasonProhibitedContent: true,
	genai.FinishReasonBlocklist:         true,
	genai.FinishReasonSPII:              true,
}

// geminiText classifies a response: prompt feedback block reasons and
// safety finish reasons are blocks, missing candidates or text is no content.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", noContentError(ProviderGemini, "empty response")
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		reason := string(fb.BlockReason)
		if fb.BlockReasonMessage != "" {
			reason += ": " + fb.BlockReasonMessage
		}
		return "", blockedError(ProviderGemini, reason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", noContentError(ProviderGemini, "no candidates")
	}

	cand := resp.Candidates[0]
	var b strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	text := b.String()

	if blockingFinishReasons[cand.FinishReason] && strings.TrimSpace(text) == "" {
		return "", blockedError(ProviderGemini, string(cand.FinishReason))
	}
	if strings.TrimSpace(text) == "" {
		return "", noContentError(ProviderGemini, string(cand.FinishReason))
	}
	if cand.FinishReason == genai.FinishReasonMaxTokens {
		slog.Warn("gemini response truncated at max output tokens", "chars", len(text))
	}
	return text, nil
}
