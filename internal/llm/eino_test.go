package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	resp *schema.Message
	err  error

	gotInput []*schema.Message
	gotOpts  *model.Options
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.gotInput = input
	f.gotOpts = model.GetCommonOptions(nil, opts...)
	return f.resp, f.err
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func newFakeEino(f *fakeChatModel) *EinoGenerator {
	return &EinoGenerator{chat: f, cfg: Config{Provider: ProviderOpenAI}.WithDefaults()}
}

func TestEinoGenerate_Success(t *testing.T) {
	f := &fakeChatModel{resp: schema.AssistantMessage("📜 Plan", nil)}
	text, err := newFakeEino(f).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "📜 Plan", text)

	require.Len(t, f.gotInput, 1)
	assert.Equal(t, schema.User, f.gotInput[0].Role)
	assert.Equal(t, "prompt", f.gotInput[0].Content)

	require.NotNil(t, f.gotOpts.Temperature)
	assert.InDelta(t, 0.7, *f.gotOpts.Temperature, 1e-6)
	require.NotNil(t, f.gotOpts.MaxTokens)
	assert.Equal(t, DefaultMaxOutputTokens, *f.gotOpts.MaxTokens)
}

func TestEinoGenerate_Failures(t *testing.T) {
	filtered := schema.AssistantMessage("", nil)
	filtered.ResponseMeta = &schema.ResponseMeta{FinishReason: "content_filter"}

	tests := []struct {
		name string
		f    *fakeChatModel
		want error
	}{
		{"request error", &fakeChatModel{err: errors.New("401")}, ErrRequestFailed},
		{"nil message", &fakeChatModel{}, ErrNoContent},
		{"empty content", &fakeChatModel{resp: schema.AssistantMessage("", nil)}, ErrNoContent},
		{"content filter", &fakeChatModel{resp: filtered}, ErrBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := newFakeEino(tt.f).Generate(context.Background(), "p")
			assert.Empty(t, text)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewChatModel_RejectsGemini(t *testing.T) {
	_, err := newChatModel(context.Background(), Config{Provider: ProviderGemini})
	assert.Error(t, err)
}
