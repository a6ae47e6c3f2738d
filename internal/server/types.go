package server

import (
	"time"

	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/render"
)

// RenderRequest is the payload for POST /api/render.
type RenderRequest struct {
	Text string `json:"text"`
	// Markers selects the vocabulary; empty means the server's default.
	Markers string `json:"markers,omitempty"`
}

// RenderResponse is the parsed form of a plan.
type RenderResponse struct {
	Document render.Document     `json:"document"`
	Check    planner.CheckResult `json:"check"`
}

// PlanResponse describes one plan, generated or loaded from history.
type PlanResponse struct {
	ID       string              `json:"id"`
	ParentID string              `json:"parentId,omitempty"`
	Kind     string              `json:"kind,omitempty"`
	Topic    string              `json:"topic,omitempty"`
	Duration string              `json:"duration,omitempty"`
	Text     string              `json:"text"`
	Summary  string              `json:"summary,omitempty"`
	Created  *time.Time          `json:"createdAt,omitempty"`
	Document render.Document     `json:"document"`
	Check    planner.CheckResult `json:"check"`
	Attempts int                 `json:"attempts,omitempty"`
}

// PlanListItem is one row of GET /api/plans.
type PlanListItem struct {
	ID         string    `json:"id"`
	ParentID   string    `json:"parentId,omitempty"`
	Kind       string    `json:"kind"`
	Topic      string    `json:"topic,omitempty"`
	Duration   string    `json:"duration,omitempty"`
	Title      string    `json:"title"`
	HasSummary bool      `json:"hasSummary"`
	Created    time.Time `json:"createdAt"`
}

// OptimizeRequest is the payload for POST /api/plans/{id}/optimize.
type OptimizeRequest struct {
	Instructions string `json:"instructions"`
}

// SummaryResponse is returned by POST /api/plans/{id}/summary.
type SummaryResponse struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Kind is blocked, failed or no_content for generation failures.
	Kind   string                    `json:"kind,omitempty"`
	Fields []planner.ValidationError `json:"fields,omitempty"`
}
