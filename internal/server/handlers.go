package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/josephgoksu/PlanWise/internal/history"
	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/plantext"
	"github.com/josephgoksu/PlanWise/internal/render"
)

const (
	maxBodyBytes     = 1 << 20
	defaultListLimit = 20
	maxListLimit     = 200
)

// handleRender parses text without calling the model.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !s.decode(w, r, &req) {
		return
	}

	vocab := s.planner.Vocabulary()
	if req.Markers != "" {
		v, err := plantext.VocabularyByName(req.Markers)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		vocab = v
	}

	blocks := plantext.NewParser(vocab).Parse(req.Text)
	writeAPIJSON(w, http.StatusOK, RenderResponse{
		Document: render.NewDocument(blocks, vocab),
		Check:    planner.Check(blocks, vocab, false),
	})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("limit must be between 1 and %d", maxListLimit),
			})
			return
		}
		limit = n
	}

	recs, err := s.history.List(limit)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	items := make([]PlanListItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, PlanListItem{
			ID:         rec.ID,
			ParentID:   rec.ParentID,
			Kind:       string(rec.Kind),
			Topic:      rec.Topic,
			Duration:   rec.Duration,
			Title:      rec.Title(),
			HasSummary: rec.Summary != "",
			Created:    rec.Created,
		})
	}
	writeAPIJSON(w, http.StatusOK, items)
}

// handleCreatePlan generates a plan from a planning request.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planner.Request
	if !s.decode(w, r, &req) {
		return
	}

	normalized := req.Normalize()
	if res := normalized.Validate(); !res.Valid {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:  res.ErrorSummary(),
			Fields: res.Errors,
		})
		return
	}

	plan, err := s.planner.Generate(r.Context(), normalized)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	resp := planResponse(plan)
	resp.Kind = string(history.KindGenerated)
	resp.Topic = normalized.Topic
	resp.Duration = normalized.Duration
	writeAPIJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	rec, plan, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	writeAPIJSON(w, http.StatusOK, recordResponse(rec, plan))
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	rec, err := s.history.Get(r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if err := s.history.Delete(rec.ID); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOptimizePlan(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	plan, err := s.planner.OptimizeStored(r.Context(), r.PathValue("id"), req.Instructions)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	resp := planResponse(plan)
	resp.Kind = string(history.KindOptimized)
	writeAPIJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSummarizePlan(w http.ResponseWriter, r *http.Request) {
	rec, err := s.history.Get(r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	summary, err := s.planner.SummarizeStored(r.Context(), rec.ID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, SummaryResponse{ID: rec.ID, Summary: summary})
}

// handlePlanPage serves a stored plan as a standalone HTML page.
func (s *Server) handlePlanPage(w http.ResponseWriter, r *http.Request) {
	rec, plan, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	renderer, err := render.ForFormat(render.FormatHTML, render.Options{
		Vocabulary: plan.Vocabulary,
		Title:      rec.Title(),
		Standalone: true,
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	page, err := render.String(renderer, plan.Blocks)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *Server) loadPlan(w http.ResponseWriter, r *http.Request) (*history.Record, *planner.Plan, bool) {
	rec, err := s.history.Get(r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, err)
		return nil, nil, false
	}
	plan, err := planner.PlanFromRecord(rec)
	if err != nil {
		s.writeFailure(w, err)
		return nil, nil, false
	}
	return rec, plan, true
}

func planResponse(p *planner.Plan) PlanResponse {
	return PlanResponse{
		ID:       p.ID,
		ParentID: p.ParentID,
		Text:     p.Text,
		Summary:  p.Summary,
		Document: render.NewDocument(p.Blocks, p.Vocabulary),
		Check:    p.Check,
		Attempts: p.Attempts,
	}
}

func recordResponse(rec *history.Record, p *planner.Plan) PlanResponse {
	resp := planResponse(p)
	resp.Kind = string(rec.Kind)
	resp.Topic = rec.Topic
	resp.Duration = rec.Duration
	created := rec.Created
	resp.Created = &created
	return resp
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// writeFailure maps service errors onto status codes. Generation failures
// carry the same user-facing message as the CLI.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var ge *llm.GenerationError
	switch {
	case errors.Is(err, planner.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, history.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, history.ErrAmbiguous):
		writeError(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &ge):
		status := http.StatusBadGateway
		if ge.Kind == llm.FailureBlocked {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, ErrorResponse{Error: llm.UserMessage(err), Kind: ge.Kind.String()})
	default:
		s.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	writeAPIJSON(w, status, body)
}

func writeAPIJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
