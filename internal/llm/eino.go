package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoGenerator adapts an Eino chat model to the Generator interface.
type EinoGenerator struct {
	chat model.BaseChatModel
	cfg  Config
}

// NewEinoGenerator creates the Eino chat model for an OpenAI, Anthropic or
// Ollama configuration.
func NewEinoGenerator(ctx context.Context, cfg Config) (*EinoGenerator, error) {
	cfg = cfg.WithDefaults()
	chat, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s chat model: %w", cfg.Provider, err)
	}
	return &EinoGenerator{chat: chat, cfg: cfg}, nil
}

func newChatModel(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		})

	case ProviderOllama:
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case ProviderAnthropic:
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxOutputTokens,
		})

	default:
		return nil, fmt.Errorf("provider %s has no eino chat model", cfg.Provider)
	}
}

// Generate sends prompt as one user message.
func (g *EinoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	provider := string(g.cfg.Provider)
	resp, err := g.chat.Generate(ctx,
		[]*schema.Message{schema.UserMessage(prompt)},
		model.WithTemperature(g.cfg.Temperature),
		model.WithTopP(g.cfg.TopP),
		model.WithMaxTokens(g.cfg.MaxOutputTokens),
	)
	if err != nil {
		return "", requestError(provider, err)
	}
	if resp == nil {
		return "", noContentError(provider, "empty response")
	}

	finish := ""
	if resp.ResponseMeta != nil {
		finish = resp.ResponseMeta.FinishReason
	}
	if strings.TrimSpace(resp.Content) == "" {
		if isContentFilter(finish) {
			return "", blockedError(provider, finish)
		}
		return "", noContentError(provider, finish)
	}
	return resp.Content, nil
}

// isContentFilter reports whether a provider finish reason means the output
// was withheld by moderation.
func isContentFilter(reason string) bool {
	switch strings.ToLower(reason) {
	case "content_filter", "refusal", "safety":
		return true
	}
	return false
}
