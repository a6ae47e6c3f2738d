package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/josephgoksu/PlanWise/internal/history"
	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/josephgoksu/PlanWise/internal/plantext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	text string
	err  error
}

// fakeGenerator returns scripted replies in order and records prompts.
type fakeGenerator struct {
	replies []reply
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.replies) == 0 {
		return "", errors.New("unexpected call")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.text, r.err
}

const dailyPlan = "📜 Fitness Plan\n📅 Monday\n☀️ Morning\n- ⏰ 07:00: Run\n\n💡 Tips for Success\n- Hydrate"

func validRequest() Request {
	return Request{
		Topic:         "fitness",
		Tasks:         []string{" run 5k ", "", "stretch"},
		AvailableTime: "1 hour",
		Duration:      "DAILY",
	}
}

func newTestService(t *testing.T, gen llm.Generator, vocab *plantext.Vocabulary, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithRetry(3, 0)}, opts...)
	return NewService(gen, vocab, opts...)
}

func TestGenerate_ParsesSuccessfulResponse(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{text: dailyPlan}}}
	svc := newTestService(t, gen, nil)

	plan, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, dailyPlan, plan.Text)
	assert.Equal(t, plantext.VocabularyEmoji, plan.Vocabulary.Name)
	require.NotEmpty(t, plan.Blocks)
	assert.Equal(t, plantext.Heading{Level: 1, Text: "Fitness Plan", Index: 0}, plan.Blocks[0])
	assert.Empty(t, plan.Check.Warnings)
	assert.Equal(t, 1, plan.Attempts)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Planning Topic: Fitness")
	assert.Contains(t, prompt, "- run 5k\n- stretch\n")
	assert.Contains(t, prompt, "Plan Duration: Daily")
	assert.Contains(t, prompt, "Custom Goals: None")
	assert.Contains(t, prompt, "💡 Tips for Success")
}

func TestGenerate_MarkdownPrompt(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{text: "# Plan\n## Week of May 1\n- **Mon**: gym"}}}
	svc := newTestService(t, gen, plantext.MarkdownVocabulary)

	req := validRequest()
	req.CustomGoals = "lose 2kg"
	plan, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0], "using Markdown formatting")
	assert.Contains(t, gen.prompts[0], "Custom Goals: lose 2kg")
	assert.Equal(t, 1, plan.Check.Stats[plantext.BlockList])
}

func TestGenerate_FailuresReturnNoPlan(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"blocked", &llm.GenerationError{Kind: llm.FailureBlocked, Reason: "SAFETY"}, llm.ErrBlocked},
		{"no content", &llm.GenerationError{Kind: llm.FailureNoContent}, llm.ErrNoContent},
		{"failed", &llm.GenerationError{Kind: llm.FailureRequest, Err: errors.New("401 unauthorized")}, llm.ErrRequestFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := history.Open(":memory:")
			require.NoError(t, err)
			defer func() { _ = store.Close() }()

			gen := &fakeGenerator{replies: []reply{{err: tt.err}}}
			svc := newTestService(t, gen, nil, WithStore(store))

			plan, err := svc.Generate(context.Background(), validRequest())
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, gen.prompts, 1, "non-transient failures are not retried")

			saved, err := store.List(0)
			require.NoError(t, err)
			assert.Empty(t, saved)
		})
	}
}

func TestGenerate_RetriesTransientFailures(t *testing.T) {
	transient := &llm.GenerationError{Kind: llm.FailureRequest, Err: errors.New("429 too many requests")}
	gen := &fakeGenerator{replies: []reply{{err: transient}, {err: transient}, {text: dailyPlan}}}
	svc := newTestService(t, gen, nil)

	plan, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Attempts)
	assert.Len(t, gen.prompts, 3)
}

func TestGenerate_GivesUpAfterMaxRetries(t *testing.T) {
	transient := &llm.GenerationError{Kind: llm.FailureRequest, Err: errors.New("connection reset")}
	gen := &fakeGenerator{replies: []reply{{err: transient}, {err: transient}, {err: transient}}}
	svc := newTestService(t, gen, nil)

	_, err := svc.Generate(context.Background(), validRequest())
	assert.ErrorIs(t, err, llm.ErrRequestFailed)
	assert.Len(t, gen.prompts, 3)
}

func TestGenerate_InvalidRequestSkipsModel(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestService(t, gen, nil)

	_, err := svc.Generate(context.Background(), Request{Topic: "Study"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, gen.prompts)
}

func TestGenerate_PersistsToHistory(t *testing.T) {
	store, err := history.Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	gen := &fakeGenerator{replies: []reply{{text: dailyPlan}}}
	svc := newTestService(t, gen, nil, WithStore(store))

	plan, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotEmpty(t, plan.ID)

	rec, err := store.Get(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, history.KindGenerated, rec.Kind)
	assert.Equal(t, "Fitness", rec.Topic)
	assert.Equal(t, "Daily", rec.Duration)
	assert.Equal(t, "emoji", rec.Markers)
	assert.Contains(t, rec.Request, `"tasks":["run 5k","stretch"]`)
}

func TestOptimizeStored_CreatesChild(t *testing.T) {
	store, err := history.Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	parent := &history.Record{Markers: "emoji", Text: dailyPlan, Topic: "Fitness"}
	require.NoError(t, store.Save(parent))

	optimized := strings.Replace(dailyPlan, "07:00", "06:00", 1)
	gen := &fakeGenerator{replies: []reply{{text: optimized}}}
	svc := newTestService(t, gen, nil, WithStore(store))

	plan, err := svc.OptimizeStored(context.Background(), parent.ID[:13], "start earlier")
	require.NoError(t, err)
	assert.Equal(t, parent.ID, plan.ParentID)
	assert.Equal(t, optimized, plan.Text)
	assert.Contains(t, gen.prompts[0], "Original Plan:\n"+dailyPlan)
	assert.Contains(t, gen.prompts[0], "Optimization Instructions:\nstart earlier")

	child, err := store.Get(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, history.KindOptimized, child.Kind)
	assert.Equal(t, "Fitness", child.Topic)
}

func TestOptimize_RequiresInstructions(t *testing.T) {
	svc := newTestService(t, &fakeGenerator{}, nil)
	_, err := svc.Optimize(context.Background(), dailyPlan, "  ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.Optimize(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSummarizeStored(t *testing.T) {
	store, err := history.Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	rec := &history.Record{Markers: "emoji", Text: dailyPlan}
	require.NoError(t, store.Save(rec))

	gen := &fakeGenerator{replies: []reply{{text: "  A morning run plan.\n"}}}
	svc := newTestService(t, gen, nil, WithStore(store))

	summary, err := svc.SummarizeStored(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "A morning run plan.", summary)
	assert.True(t, strings.HasPrefix(gen.prompts[0], "Summarize the following plan in a concise manner:"))

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, summary, got.Summary)
}

func TestStoredOperationsWithoutHistory(t *testing.T) {
	svc := newTestService(t, &fakeGenerator{}, nil)
	_, err := svc.SummarizeStored(context.Background(), "plan-1")
	assert.Error(t, err)
	_, err = svc.Load("plan-1")
	assert.Error(t, err)
}

func TestPlanFromRecord_UsesRecordedVocabulary(t *testing.T) {
	plan, err := PlanFromRecord(&history.Record{ID: "plan-1", Markers: "markdown", Text: "# Title\n* item"})
	require.NoError(t, err)
	assert.Equal(t, plantext.VocabularyMarkdown, plan.Vocabulary.Name)
	assert.Equal(t, []plantext.Block{
		plantext.Heading{Level: 1, Text: "Title", Index: 0},
		plantext.List{Items: []string{"item"}, Index: 1},
	}, plan.Blocks)

	_, err = PlanFromRecord(&history.Record{Markers: "html", Text: "x"})
	assert.Error(t, err)
}
