package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three ways a generation can fail. A
// *GenerationError matches exactly one of them with errors.Is.
var (
	ErrBlocked       = errors.New("request blocked")
	ErrRequestFailed = errors.New("request failed")
	ErrNoContent     = errors.New("no content produced")
)

// FailureKind classifies a failed generation.
type FailureKind int

const (
	FailureRequest FailureKind = iota
	FailureBlocked
	FailureNoContent
)

func (k FailureKind) String() string {
	switch k {
	case FailureBlocked:
		return "blocked"
	case FailureNoContent:
		return "no_content"
	default:
		return "failed"
	}
}

// GenerationError reports a failed call to a generation provider.
type GenerationError struct {
	Kind     FailureKind
	Provider string
	// Reason is the provider's block or finish reason, when it gave one.
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	msg := e.sentinel().Error()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *GenerationError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *GenerationError) sentinel() error {
	switch e.Kind {
	case FailureBlocked:
		return ErrBlocked
	case FailureNoContent:
		return ErrNoContent
	default:
		return ErrRequestFailed
	}
}

func blockedError(provider, reason string) error {
	return &GenerationError{Kind: FailureBlocked, Provider: provider, Reason: reason}
}

func noContentError(provider, reason string) error {
	return &GenerationError{Kind: FailureNoContent, Provider: provider, Reason: reason}
}

func requestError(provider string, err error) error {
	return &GenerationError{Kind: FailureRequest, Provider: provider, Err: err}
}

// UserMessage turns a generation failure into the single message shown to a
// user. It distinguishes blocked, failed and empty responses.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ge *GenerationError
	if !errors.As(err, &ge) {
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
	switch ge.Kind {
	case FailureBlocked:
		if ge.Reason != "" {
			return fmt.Sprintf("Request was blocked: %s", ge.Reason)
		}
		return "Request was blocked by the provider's safety filters."
	case FailureNoContent:
		return "No plan was generated. The response may have been blocked for safety reasons."
	default:
		if ge.Err != nil {
			return fmt.Sprintf("Plan request failed: %v", ge.Err)
		}
		return "Plan request failed. Please try again."
	}
}
