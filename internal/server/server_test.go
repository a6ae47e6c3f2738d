package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/PlanWise/internal/history"
	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/plantext"
	"github.com/josephgoksu/PlanWise/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studyPlan = "📜 Daily Study Plan\n📅 Monday\n☀️ Morning\n- **09:00**: Algebra\n- 10:00: Essay\n\n💡 Tips for Success\n- Take breaks"

// scriptedGenerator returns one fixed reply or error for every call.
type scriptedGenerator struct {
	text  string
	err   error
	calls int
}

func (g *scriptedGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	return g.text, g.err
}

type testEnv struct {
	handler http.Handler
	store   *history.Store
	gen     *scriptedGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := history.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	gen := &scriptedGenerator{text: studyPlan}
	svc := planner.NewService(gen, plantext.EmojiVocabulary,
		planner.WithStore(store), planner.WithRetry(1, 0))

	srv, err := New(Config{Port: 0, Planner: svc, History: store, Origins: []string{"http://localhost:3000"}})
	require.NoError(t, err)
	return &testEnv{handler: srv.Handler(), store: store, gen: gen}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *testEnv) seed(t *testing.T, text string) *history.Record {
	t.Helper()
	rec := &history.Record{Kind: history.KindGenerated, Topic: "Study", Duration: "Daily", Markers: plantext.VocabularyEmoji, Text: text}
	require.NoError(t, e.store.Save(rec))
	return rec
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/render", `{"text":"- a\n- b\n\n- c"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[RenderResponse](t, rec)

	require.Len(t, resp.Document.Blocks, 3)
	assert.Equal(t, plantext.BlockList, resp.Document.Blocks[0].Kind)
	assert.Len(t, resp.Document.Blocks[0].Items, 2)
	assert.Equal(t, plantext.BlockSpacer, resp.Document.Blocks[1].Kind)
	assert.Equal(t, 0, resp.Document.Blocks[0].Line)
	assert.Equal(t, 2, resp.Document.Blocks[1].Line)
	assert.Equal(t, 3, resp.Document.Blocks[2].Line)
	assert.Equal(t, 0, env.gen.calls, "render never calls the model")
}

func TestRender_MarkdownMarkers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/render", `{"text":"# Plan\n__focus__","markers":"markdown"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[RenderResponse](t, rec)

	assert.Equal(t, "markdown", resp.Document.Markers)
	require.Len(t, resp.Document.Blocks, 2)
	assert.Equal(t, 1, resp.Document.Blocks[0].Level)
	assert.Equal(t, []plantext.Span{{Kind: plantext.SpanEmphasis, Text: "focus"}}, resp.Document.Blocks[1].Spans)
}

func TestRender_BadInput(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/render", `{"text":`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/render", `{"text":"x","markers":"rst"}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/render", `{"txt":"x"}`).Code)
}

func TestCreatePlan(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/plans",
		`{"topic":"study","tasks":["algebra","essay"],"availableTime":"3 hours","duration":"daily"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[PlanResponse](t, rec)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "generated", resp.Kind)
	assert.Equal(t, "Study", resp.Topic)
	assert.Equal(t, "Daily", resp.Duration)
	assert.Equal(t, studyPlan, resp.Text)
	assert.Empty(t, resp.Check.Warnings)
	assert.Equal(t, plantext.BlockHeading, resp.Document.Blocks[0].Kind)

	stored, err := env.store.Get(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, studyPlan, stored.Text)
}

func TestCreatePlan_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/plans", `{"topic":"Cooking","tasks":[" "],"availableTime":"","duration":"Hourly"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)

	fields := map[string]bool{}
	for _, f := range resp.Fields {
		fields[f.Field] = true
	}
	assert.Equal(t, map[string]bool{"Topic": true, "Tasks": true, "AvailableTime": true, "Duration": true}, fields)
	assert.Equal(t, 0, env.gen.calls)
}

func TestCreatePlan_GenerationFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"blocked", &llm.GenerationError{Kind: llm.FailureBlocked, Reason: "SAFETY"}, http.StatusUnprocessableEntity, "blocked"},
		{"no content", &llm.GenerationError{Kind: llm.FailureNoContent}, http.StatusBadGateway, "no_content"},
		{"failed", &llm.GenerationError{Kind: llm.FailureRequest, Err: errors.New("dial tcp")}, http.StatusBadGateway, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.gen.err = tt.err

			rec := env.do(t, http.MethodPost, "/api/plans",
				`{"topic":"Work","tasks":["report"],"availableTime":"2h","duration":"Weekly"}`)
			assert.Equal(t, tt.status, rec.Code)
			resp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, llm.UserMessage(tt.err), resp.Error)

			list, err := env.store.List(10)
			require.NoError(t, err)
			assert.Empty(t, list, "failed generations are not stored")
		})
	}
}

func TestListAndGetPlans(t *testing.T) {
	env := newTestEnv(t)
	first := env.seed(t, studyPlan)
	require.NoError(t, env.store.Save(&history.Record{
		Markers: plantext.VocabularyEmoji, Text: "📜 Second", Created: first.Created.Add(time.Second),
	}))

	rec := env.do(t, http.MethodGet, "/api/plans?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[[]PlanListItem](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "📜 Second", items[0].Title)

	rec = env.do(t, http.MethodGet, "/api/plans/"+first.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[PlanResponse](t, rec)
	assert.Equal(t, first.ID, resp.ID)
	assert.Equal(t, "Study", resp.Topic)
	require.NotNil(t, resp.Created)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/plans?limit=0", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/plans/plan-missing", "").Code)
}

func TestGetPlan_AmbiguousPrefix(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.Save(&history.Record{ID: "plan-aa1", Markers: "emoji", Text: "a"}))
	require.NoError(t, env.store.Save(&history.Record{ID: "plan-aa2", Markers: "emoji", Text: "b"}))

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodGet, "/api/plans/plan-aa", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/plans/plan-aa1", "").Code)
}

func TestOptimizePlan(t *testing.T) {
	env := newTestEnv(t)
	parent := env.seed(t, "📜 Old plan")

	rec := env.do(t, http.MethodPost, "/api/plans/"+parent.ID+"/optimize", `{"instructions":"more breaks"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[PlanResponse](t, rec)
	assert.Equal(t, parent.ID, resp.ParentID)
	assert.Equal(t, "optimized", resp.Kind)

	child, err := env.store.Get(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, history.KindOptimized, child.Kind)

	rec = env.do(t, http.MethodPost, "/api/plans/"+parent.ID+"/optimize", `{"instructions":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummarizePlan(t *testing.T) {
	env := newTestEnv(t)
	plan := env.seed(t, studyPlan)
	env.gen.text = "  A focused study day.  "

	rec := env.do(t, http.MethodPost, "/api/plans/"+plan.ID[:7]+"/summary", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[SummaryResponse](t, rec)
	assert.Equal(t, plan.ID, resp.ID)
	assert.Equal(t, "A focused study day.", resp.Summary)

	stored, err := env.store.Get(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "A focused study day.", stored.Summary)
}

func TestDeletePlan(t *testing.T) {
	env := newTestEnv(t)
	plan := env.seed(t, studyPlan)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/plans/"+plan.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/plans/"+plan.ID, "").Code)
}

func TestPlanPage(t *testing.T) {
	env := newTestEnv(t)
	plan := env.seed(t, studyPlan)

	rec := env.do(t, http.MethodGet, "/plans/"+plan.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "<title>📜 Daily Study Plan</title>")
	assert.Contains(t, body, "<strong>09:00</strong>")
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/plans", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/plans", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDocumentMatchesRenderer(t *testing.T) {
	blocks := plantext.Parse(studyPlan)
	doc := render.NewDocument(blocks, plantext.EmojiVocabulary)
	assert.Len(t, doc.Blocks, len(blocks))
}
