// Package plan turns a goal list into an improvement plan, falling back to a
// deterministic mock plan whenever the provider cannot deliver one.
package plan

import (
	"context"
	"time"

	"go.uber.org/zap"

	"goalplan-backend/internal/ai"
	"goalplan-backend/internal/apperr"
	"goalplan-backend/internal/goals"
)

const DefaultTimeout = 8 * time.Second

const (
	NoticeUnconfigured   = "Gemini credentials not configured; returned mock plan."
	NoticeProviderFailed = "Gemini call failed; returned mock plan. See server logs for details."
)

// Result is what one plan request produced. UsedFallback marks a mock plan.
type Result struct {
	PlanText     string
	UsedFallback bool
	Notice       string
	Shape        ai.Shape
	PromptLen    int
}

// Planner owns the provider for its whole lifetime. A nil provider means
// no credentials were configured and every request gets the mock plan.
type Planner struct {
	provider ai.Provider
	timeout  time.Duration
	logger   *zap.Logger
}

type Option func(*Planner)

func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

func NewPlanner(provider ai.Provider, opts ...Option) *Planner {
	p := &Planner{
		provider: provider,
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Configured reports whether a real provider is wired in.
func (p *Planner) Configured() bool { return p.provider != nil }

// RequestPlan returns a plan for list. The only error it returns is a
// *apperr.ValidationError for an empty list; provider failures of any kind
// produce the mock plan instead.
func (p *Planner) RequestPlan(ctx context.Context, list []goals.Goal) (Result, error) {
	if len(list) == 0 {
		return Result{}, apperr.Validation("goals", "at least one goal is required")
	}

	prompt := ai.BuildPlanPrompt(list)
	p.logger.Debug("prepared prompt",
		zap.Int("goals", len(list)),
		zap.String("prompt", truncate(prompt, 300)))

	if p.provider == nil {
		p.logger.Warn("no Gemini provider configured, returning mock plan")
		return fallback(list, prompt, NoticeUnconfigured), nil
	}

	norm, err := p.generate(ctx, prompt)
	if err != nil {
		p.logger.Error("Gemini call failed, falling back to mock plan", zap.Error(err))
		return fallback(list, prompt, NoticeProviderFailed), nil
	}

	if norm.Shape == ai.ShapeUnrecognized {
		p.logger.Warn("unrecognized provider response shape, returning raw document")
	}
	p.logger.Debug("received plan",
		zap.String("shape", string(norm.Shape)),
		zap.String("plan", truncate(norm.Text, 300)))

	return Result{
		PlanText:  norm.Text,
		Shape:     norm.Shape,
		PromptLen: len(prompt),
	}, nil
}

func (p *Planner) generate(ctx context.Context, prompt string) (ai.Normalized, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.provider.Generate(ctx, prompt)
	if err != nil {
		return ai.Normalized{}, &apperr.ProviderError{Op: "generate", Err: err}
	}

	norm, err := ai.Normalize(raw)
	if err != nil {
		return ai.Normalized{}, &apperr.ProviderError{Op: "normalize", Err: err}
	}
	return norm, nil
}

func fallback(list []goals.Goal, prompt, notice string) Result {
	return Result{
		PlanText:     ai.MockPlan(list),
		UsedFallback: true,
		Notice:       notice,
		PromptLen:    len(prompt),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
