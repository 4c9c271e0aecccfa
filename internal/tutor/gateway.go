package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/skillgap/internal/llm"
	"github.com/abhisek/skillgap/internal/skill"
)

// Purposes tag each call in the audit log.
const (
	PurposeExplain   = "explain"
	PurposeRoadmap   = "roadmap"
	PurposeDiagnosis = "diagnosis"
)

// DefaultTimeout bounds a single tutor call.
const DefaultTimeout = 60 * time.Second

// Gateway sends tutor prompts to a provider, one user message per call.
type Gateway struct {
	provider    llm.Provider
	timeout     time.Duration
	maxTokens   int
	temperature float64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout sets the per-call deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithSampling sets the token cap and temperature sent with each call.
func WithSampling(maxTokens int, temperature float64) Option {
	return func(g *Gateway) {
		g.maxTokens = maxTokens
		g.temperature = temperature
	}
}

// NewGateway creates a gateway over provider.
func NewGateway(provider llm.Provider, opts ...Option) *Gateway {
	g := &Gateway{provider: provider, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Explain returns a tutoring explanation of topic pitched at level.
func (g *Gateway) Explain(ctx context.Context, topic string, level skill.Level) (string, error) {
	text, err := g.ask(ctx, PurposeExplain, BuildExplanationPrompt(topic, level))
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	return text, nil
}

// Diagnose returns an analysis of why a topic score is low.
func (g *Gateway) Diagnose(ctx context.Context, topic string, score float64, level skill.Level) (string, error) {
	text, err := g.ask(ctx, PurposeDiagnosis, BuildDiagnosisPrompt(topic, score, level))
	if err != nil {
		return "", fmt.Errorf("diagnose: %w", err)
	}
	return text, nil
}

// Roadmap returns a day-wise learning plan for the snapshot.
func (g *Gateway) Roadmap(ctx context.Context, in RoadmapInput) (string, error) {
	text, err := g.ask(ctx, PurposeRoadmap, BuildRoadmapPrompt(in))
	if err != nil {
		return "", fmt.Errorf("roadmap: %w", err)
	}
	return text, nil
}

func (g *Gateway) ask(ctx context.Context, purpose, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, purpose)

	req := llm.UserPrompt(prompt)
	req.MaxTokens = g.maxTokens
	req.Temperature = g.temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
