package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewlens/internal/analytics"
	"reviewlens/internal/domain"
)

type stepLog struct{ steps []string }

func (l *stepLog) IntentRouted(string) {}
func (l *stepLog) FallbackStep(step, outcome string) {
	l.steps = append(l.steps, step+":"+outcome)
}

func marchRequest(question string) AnswerRequest {
	var rs []domain.RawReview
	for i := 0; i < 10; i++ {
		body, rating := "Great fit and lovely fabric", 5.0
		if i < 3 {
			body, rating = "The battery died after two days", 1.0
		}
		rs = append(rs, domain.RawReview{"id": fmt.Sprint(i), "body": body, "rating": rating, "created_at": "2026-03-02"})
	}
	rs = append(rs, domain.RawReview{"id": "old", "body": "Fine", "rating": 3.0, "created_at": "2025-01-01"})
	dr := domain.NewDateRange(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	return AnswerRequest{Question: question, Reviews: rs, DateRange: &dr}
}

func failing(name string) fallbackStep {
	return fallbackStep{name: name, run: func(context.Context, *turn) (AnswerResponse, error) {
		return AnswerResponse{}, errors.New(name + " down")
	}}
}

func TestFallback_TemplateFailureUsesMinimal(t *testing.T) {
	obs := &stepLog{}
	a := NewAssistant(analytics.NewResolver(nil), nil, AssistantConfig{}, obs)
	chain := a.fallbackChain()
	require.Equal(t, "template", chain[1].name)
	chain[1].run = func(context.Context, *turn) (AnswerResponse, error) { panic("template broke") }
	a.steps = chain

	resp, err := a.AnswerQuestion(context.Background(), marchRequest("summarise these"))
	require.NoError(t, err)
	assert.Equal(t, ModelMinimal, resp.Model)
	assert.Equal(t, "Total reviews: 10. Positive: 7, Negative: 3, Neutral: 0.", resp.Answer)
	assert.Equal(t, 10, resp.AppliedFilters.ReviewCount)
	require.NotNil(t, resp.AppliedFilters.DateRange)
	assert.Equal(t, "2026-03-01", resp.AppliedFilters.DateRange.Start.Format(domain.DateLayout))
	assert.Equal(t, []string{"generative:failed", "template:failed", "minimal:ok"}, obs.steps)
}

func TestFallback_EveryStepFailing(t *testing.T) {
	obs := &stepLog{}
	a := NewAssistant(analytics.NewResolver(nil), nil, AssistantConfig{}, obs)
	a.steps = []fallbackStep{failing("generative"), failing("template"), failing("minimal")}

	resp, err := a.AnswerQuestion(context.Background(), marchRequest("summarise these"))
	require.NoError(t, err)
	assert.Equal(t, ModelMinimal, resp.Model)
	assert.Equal(t, "Total reviews: 10.", resp.Answer)
	assert.Equal(t, 10, resp.AppliedFilters.ReviewCount)
	assert.NotNil(t, resp.AppliedFilters.DateRange)
	assert.Len(t, obs.steps, 3)
}

func TestAnswerQuestion_PanicOutsideFreeformApologises(t *testing.T) {
	a := NewAssistant(analytics.NewResolver(nil), nil, AssistantConfig{}, nil)
	a.intents = []intent{{
		name:   "broken",
		match:  func(*turn) bool { return true },
		handle: func(context.Context, *turn) AnswerResponse { panic("handler broke") },
	}}

	req := marchRequest("how many negative reviews")
	resp, err := a.AnswerQuestion(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, ModelError, resp.Model)
	assert.Equal(t, apologyAnswer, resp.Answer)
	assert.Equal(t, 10, resp.AppliedFilters.ReviewCount)
	require.NotNil(t, resp.AppliedFilters.DateRange)
	assert.Equal(t, "2026-03-31", resp.AppliedFilters.DateRange.End.Format(domain.DateLayout))
}
