package llm

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationError_Is(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"blocked", blockedError(ProviderGemini, "SAFETY"), ErrBlocked},
		{"no content", noContentError(ProviderGemini, "STOP"), ErrNoContent},
		{"request", requestError(ProviderOpenAI, errors.New("dial tcp: refused")), ErrRequestFailed},
	}

	sentinels := []error{ErrBlocked, ErrNoContent, ErrRequestFailed}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("generate plan: %w", tt.err)
			for _, s := range sentinels {
				assert.Equal(t, s == tt.want, errors.Is(wrapped, s), "errors.Is(%v, %v)", tt.err, s)
			}
		})
	}
}

func TestGenerationError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := requestError(ProviderAnthropic, cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "anthropic")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))

	blocked := UserMessage(blockedError(ProviderGemini, "SAFETY"))
	assert.Contains(t, blocked, "blocked")
	assert.Contains(t, blocked, "SAFETY")

	empty := UserMessage(noContentError(ProviderGemini, ""))
	assert.True(t, strings.HasPrefix(empty, "No plan was generated"))

	failed := UserMessage(requestError(ProviderGemini, errors.New("timeout")))
	assert.Contains(t, failed, "timeout")

	other := UserMessage(errors.New("boom"))
	assert.Contains(t, other, "unexpected")

	// Each kind produces a distinct message.
	assert.NotEqual(t, blocked, empty)
	assert.NotEqual(t, empty, failed)
}
