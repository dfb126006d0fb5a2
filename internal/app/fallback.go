package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"reviewlens/internal/domain"
)

// fallbackStep is one way of answering a free-form question. Steps run in order until one succeeds.
type fallbackStep struct {
	name string
	run  func(ctx context.Context, t *turn) (AnswerResponse, error)
}

func (a *Assistant) fallbackChain() []fallbackStep {
	return []fallbackStep{
		{name: "generative", run: a.generate},
		{name: "template", run: templateAnswer},
		{name: "minimal", run: func(_ context.Context, t *turn) (AnswerResponse, error) {
			return AnswerResponse{Answer: minimalAnswer(t.stats), Model: ModelMinimal}, nil
		}},
	}
}

func (a *Assistant) answerFreeform(ctx context.Context, t *turn) AnswerResponse {
	for _, s := range a.steps {
		resp, err := runStep(ctx, s, t)
		if err == nil && strings.TrimSpace(resp.Answer) != "" {
			a.obs.FallbackStep(s.name, "ok")
			return resp
		}
		a.obs.FallbackStep(s.name, "failed")
		log.Warn().Err(err).Str("component", "assistant").Str("step", s.name).Msg("answer step failed, falling back")
	}
	return AnswerResponse{Answer: fmt.Sprintf("Total reviews: %d.", t.stats.Total), Model: ModelMinimal}
}

// runStep isolates a step so that a panic inside it only fails that step.
func runStep(ctx context.Context, s fallbackStep, t *turn) (resp AnswerResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %s panicked: %v", s.name, r)
		}
	}()
	return s.run(ctx, t)
}

func (a *Assistant) generate(ctx context.Context, t *turn) (AnswerResponse, error) {
	if a.gen == nil {
		return AnswerResponse{}, domain.ErrMissingCredentials
	}
	user, err := buildUserPrompt(t)
	if err != nil {
		return AnswerResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()
	c, err := a.gen.Complete(ctx, domain.CompletionRequest{
		System:      systemPrompt,
		User:        user,
		History:     recentHistory(t.history),
		Model:       a.cfg.Model,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrGeneratorTimeout) {
			err = fmt.Errorf("%w: %w", domain.ErrGeneratorTimeout, err)
		}
		return AnswerResponse{}, err
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return AnswerResponse{}, domain.ErrGeneratorEmpty
	}
	model := c.Model
	if model == "" {
		model = a.cfg.Model
	}
	return AnswerResponse{Answer: text, Model: model}, nil
}

func templateAnswer(_ context.Context, t *turn) (AnswerResponse, error) {
	next := actionsFor(t.negative[:min(2, len(t.negative))])
	return AnswerResponse{
		Answer:           formatTemplate(breakdown(t.stats), overallInsight(t.stats, t.negative, t.positive), next, t.quotes),
		Model:            ModelRuleBased,
		SuggestedActions: next,
	}, nil
}
