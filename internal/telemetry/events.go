package telemetry

import (
	"errors"
	"time"

	"github.com/josephgoksu/PlanWise/internal/llm"
)

// Event names
const (
	EventPlanGenerated  = "plan_generated"
	EventPlanOptimized  = "plan_optimized"
	EventPlanSummarized = "plan_summarized"
	EventPlanRendered   = "plan_rendered"
	EventCommandError   = "command_error"
)

// Generation describes one generate/optimize/summarize call. Only enum
// values and counts are recorded.
type Generation struct {
	Provider   string
	Model      string
	Topic      string
	Duration   string
	Vocabulary string
	Attempts   int
	Elapsed    time.Duration
	Err        error
}

// Props converts g into event properties. A failed call records its
// failure kind (blocked, failed or no_content).
func (g Generation) Props() Properties {
	props := Properties{
		"provider":    g.Provider,
		"model":       g.Model,
		"vocabulary":  g.Vocabulary,
		"attempts":    g.Attempts,
		"duration_ms": g.Elapsed.Milliseconds(),
		"success":     g.Err == nil,
	}
	if g.Topic != "" {
		props["topic"] = g.Topic
	}
	if g.Duration != "" {
		props["plan_duration"] = g.Duration
	}
	if g.Err != nil {
		props["failure"] = FailureKind(g.Err)
	}
	return props
}

// FailureKind names the error class without its message.
func FailureKind(err error) string {
	var ge *llm.GenerationError
	if errors.As(err, &ge) {
		return ge.Kind.String()
	}
	return "other"
}

// RenderProps describes one render call.
func RenderProps(format, vocabulary string, blocks int) Properties {
	return Properties{
		"format":     format,
		"vocabulary": vocabulary,
		"blocks":     blocks,
	}
}

// CommandErrorProps describes a failed command.
func CommandErrorProps(command string, err error) Properties {
	return Properties{
		"command": command,
		"failure": FailureKind(err),
	}
}
