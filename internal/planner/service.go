// Package planner builds prompts from plan requests, calls the generation
// collaborator, and parses successful responses into blocks.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/josephgoksu/PlanWise/internal/history"
	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/josephgoksu/PlanWise/internal/plantext"
)

const (
	// MaxGenerationRetries is the maximum number of attempts for transient request failures
	MaxGenerationRetries = 3

	// RetryDelay is the base delay between retries
	RetryDelay = 500 * time.Millisecond
)

// Store is the part of the plan history the service writes to.
type Store interface {
	Save(r *history.Record) error
	Get(ref string) (*history.Record, error)
	SetSummary(id, summary string) error
}

// Plan is a successful generation: the raw text and its parsed blocks.
type Plan struct {
	ID         string               `json:"id,omitempty"`
	ParentID   string               `json:"parentId,omitempty"`
	Text       string               `json:"text"`
	Blocks     []plantext.Block     `json:"-"`
	Vocabulary *plantext.Vocabulary `json:"-"`
	Summary    string               `json:"summary,omitempty"`
	Check      CheckResult          `json:"check"`
	Attempts   int                  `json:"attempts,omitempty"`
	Duration   time.Duration        `json:"duration,omitempty"`
}

// Service runs plan generation, optimization and summarization.
type Service struct {
	gen        llm.Generator
	parser     *plantext.Parser
	prompts    *PromptLoader
	store      Store
	maxRetries int
	retryDelay time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithStore persists generated and optimized plans.
func WithStore(s Store) Option {
	return func(svc *Service) { svc.store = s }
}

// WithPrompts replaces the default prompt loader.
func WithPrompts(l *PromptLoader) Option {
	return func(svc *Service) { svc.prompts = l }
}

// WithRetry sets the attempt count and base delay for transient failures.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(svc *Service) {
		if attempts > 0 {
			svc.maxRetries = attempts
		}
		svc.retryDelay = delay
	}
}

// NewService creates a Service that parses responses with vocab (nil means
// the emoji vocabulary).
func NewService(gen llm.Generator, vocab *plantext.Vocabulary, opts ...Option) *Service {
	svc := &Service{
		gen:        gen,
		parser:     plantext.NewParser(vocab),
		prompts:    NewPromptLoader(nil, ""),
		maxRetries: MaxGenerationRetries,
		retryDelay: RetryDelay,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Vocabulary returns the vocabulary responses are parsed with.
func (s *Service) Vocabulary() *plantext.Vocabulary { return s.parser.Vocabulary() }

// Parse turns existing plan text into a Plan without calling the model.
func (s *Service) Parse(text string) *Plan {
	return s.newPlan(text, false)
}

func (s *Service) newPlan(text string, expectTips bool) *Plan {
	blocks := s.parser.Parse(text)
	vocab := s.parser.Vocabulary()
	return &Plan{
		Text:       text,
		Blocks:     blocks,
		Vocabulary: vocab,
		Check:      Check(blocks, vocab, expectTips),
	}
}

// Generate validates req, asks the model for a plan and parses it. On
// failure no plan is returned and the error wraps an llm sentinel or
// ErrInvalidRequest.
func (s *Service) Generate(ctx context.Context, req Request) (*Plan, error) {
	req = req.Normalize()
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	vocab := s.parser.Vocabulary()
	prompt, err := s.prompts.Render(generateKeyFor(vocab.Name), generateData(req))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	text, attempts, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	plan := s.newPlan(text, vocab.Name == plantext.VocabularyEmoji)
	plan.Attempts = attempts
	plan.Duration = time.Since(start)
	logCheck(plan)

	if s.store != nil {
		reqJSON, _ := json.Marshal(req)
		rec := &history.Record{
			Kind:     history.KindGenerated,
			Topic:    req.Topic,
			Duration: req.Duration,
			Request:  string(reqJSON),
			Markers:  vocab.Name,
			Text:     text,
		}
		if err := s.store.Save(rec); err != nil {
			return plan, fmt.Errorf("save plan: %w", err)
		}
		plan.ID = rec.ID
	}
	return plan, nil
}

// Optimize revises original according to instructions, keeping its format.
func (s *Service) Optimize(ctx context.Context, original, instructions string) (*Plan, error) {
	if strings.TrimSpace(original) == "" {
		return nil, fmt.Errorf("%w: original plan is empty", ErrInvalidRequest)
	}
	if strings.TrimSpace(instructions) == "" {
		return nil, fmt.Errorf("%w: optimization instructions are required", ErrInvalidRequest)
	}

	prompt, err := s.prompts.Render(KeyOptimize, optimizeData{OriginalPlan: original, Instructions: instructions})
	if err != nil {
		return nil, err
	}
	start := time.Now()
	text, attempts, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}
	plan := s.newPlan(text, false)
	plan.Attempts = attempts
	plan.Duration = time.Since(start)
	logCheck(plan)
	return plan, nil
}

// OptimizeStored optimizes a plan from history and saves the result as a
// child of it.
func (s *Service) OptimizeStored(ctx context.Context, ref, instructions string) (*Plan, error) {
	parent, err := s.load(ref)
	if err != nil {
		return nil, err
	}
	plan, err := s.Optimize(ctx, parent.Text, instructions)
	if err != nil {
		return nil, err
	}

	rec := &history.Record{
		ParentID: parent.ID,
		Kind:     history.KindOptimized,
		Topic:    parent.Topic,
		Duration: parent.Duration,
		Request:  parent.Request,
		Markers:  s.parser.Vocabulary().Name,
		Text:     plan.Text,
	}
	if err := s.store.Save(rec); err != nil {
		return plan, fmt.Errorf("save plan: %w", err)
	}
	plan.ID = rec.ID
	plan.ParentID = parent.ID
	return plan, nil
}

// Summarize returns a concise summary of plan text.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: plan is empty", ErrInvalidRequest)
	}
	prompt, err := s.prompts.Render(KeySummarize, summarizeData{Plan: text})
	if err != nil {
		return "", err
	}
	summary, _, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

// SummarizeStored summarizes a plan from history and stores the summary.
func (s *Service) SummarizeStored(ctx context.Context, ref string) (string, error) {
	rec, err := s.load(ref)
	if err != nil {
		return "", err
	}
	summary, err := s.Summarize(ctx, rec.Text)
	if err != nil {
		return "", err
	}
	if err := s.store.SetSummary(rec.ID, summary); err != nil {
		return summary, fmt.Errorf("store summary: %w", err)
	}
	return summary, nil
}

// Load reads a plan from history and parses it with the vocabulary it was
// saved with.
func (s *Service) Load(ref string) (*Plan, error) {
	rec, err := s.load(ref)
	if err != nil {
		return nil, err
	}
	return PlanFromRecord(rec)
}

// PlanFromRecord parses a history record with its recorded vocabulary.
func PlanFromRecord(rec *history.Record) (*Plan, error) {
	vocab, err := plantext.VocabularyByName(rec.Markers)
	if err != nil {
		return nil, err
	}
	blocks := plantext.NewParser(vocab).Parse(rec.Text)
	return &Plan{
		ID:         rec.ID,
		ParentID:   rec.ParentID,
		Text:       rec.Text,
		Blocks:     blocks,
		Vocabulary: vocab,
		Summary:    rec.Summary,
		Check:      Check(blocks, vocab, false),
	}, nil
}

func (s *Service) load(ref string) (*history.Record, error) {
	if s.store == nil {
		return nil, errors.New("plan history is not enabled")
	}
	return s.store.Get(ref)
}

// generateWithRetry calls the generator, retrying transient request
// failures. Blocked and empty responses are returned immediately.
func (s *Service) generateWithRetry(ctx context.Context, prompt string) (string, int, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		text, err := s.gen.Generate(ctx, prompt)
		if err == nil {
			return text, attempt, nil
		}
		lastErr = err
		if !isTransientError(err) || attempt == s.maxRetries {
			break
		}
		slog.Debug("retrying plan request", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return "", attempt, lastErr
		case <-time.After(s.retryDelay * time.Duration(attempt)):
		}
	}
	return "", 0, lastErr
}

// isTransientError checks if a request failure is worth retrying.
func isTransientError(err error) bool {
	if err == nil || !errors.Is(err, llm.ErrRequestFailed) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	errStr := strings.ToLower(err.Error())

	// Rate limit errors
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "quota exceeded") {
		return true
	}

	// Network and overload errors
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "temporary") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "unavailable")
}

func logCheck(p *Plan) {
	for _, w := range p.Check.Warnings {
		slog.Warn("plan structure", "type", w.Type, "line", w.Line, "message", w.Message)
	}
	slog.Debug("plan parsed",
		"vocabulary", p.Vocabulary.Name,
		"headings", p.Check.Stats[plantext.BlockHeading],
		"lists", p.Check.Stats[plantext.BlockList],
		"paragraphs", p.Check.Stats[plantext.BlockParagraph],
		"attempts", p.Attempts,
	)
}
