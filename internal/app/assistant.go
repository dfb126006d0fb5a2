package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"reviewlens/internal/analytics"
	"reviewlens/internal/domain"
)

// Model tags reported with every answer.
const (
	ModelRuleBased = "rule-based"
	ModelMinimal   = "fallback-minimal"
	ModelError     = "error"
)

const (
	topicsK  = 5
	quotesK  = analytics.DefaultMaxQuotes
	historyN = 6
)

type AnswerRequest struct {
	Question         string
	Reviews          []domain.RawReview
	DateRange        *domain.DateRange // used when the question names no range
	ProductID        string
	History          []domain.Message
	ProductAnalytics *domain.Snapshot // used only when no reviews are supplied
}

type AnswerResponse struct {
	Answer           string                `json:"answer"`
	Model            string                `json:"model"`
	AppliedFilters   domain.AppliedFilters `json:"applied_filters"`
	SuggestedActions []string              `json:"suggested_actions,omitempty"`
}

// Observer receives routing and fallback events.
type Observer interface {
	IntentRouted(intent string)
	FallbackStep(step, outcome string)
}

type nopObserver struct{}

func (nopObserver) IntentRouted(string)         {}
func (nopObserver) FallbackStep(string, string) {}

type AssistantConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Assistant answers analytic questions about a review collection.
type Assistant struct {
	resolver *analytics.Resolver
	gen      domain.Generator
	cfg      AssistantConfig
	obs      Observer
	intents  []intent
	steps    []fallbackStep
}

// NewAssistant wires the answer pipeline. gen may be nil; the free-form path then answers from templates.
func NewAssistant(resolver *analytics.Resolver, gen domain.Generator, cfg AssistantConfig, obs Observer) *Assistant {
	if resolver == nil {
		resolver = analytics.NewResolver(nil)
	}
	if obs == nil {
		obs = nopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	a := &Assistant{resolver: resolver, gen: gen, cfg: cfg, obs: obs}
	a.intents = a.routes()
	a.steps = a.fallbackChain()
	return a
}

// turn is everything one question is answered from.
type turn struct {
	question string
	lower    string
	reviews  []domain.Review
	stats    domain.Stats
	negative []domain.TopicEntry
	positive []domain.TopicEntry
	quotes   []string
	filters  domain.AppliedFilters
	history  []domain.Message
	product  string
}

func (a *Assistant) prepare(req AnswerRequest) *turn {
	q := strings.TrimSpace(req.Question)
	t := &turn{
		question: q,
		lower:    strings.ToLower(q),
		history:  req.History,
		product:  strings.TrimSpace(req.ProductID),
	}

	dr := req.DateRange
	if resolved, ok := a.resolver.Resolve(q); ok {
		dr = &resolved
	}

	if len(req.Reviews) == 0 && req.ProductAnalytics != nil {
		snap := req.ProductAnalytics
		t.stats = snap.Stats
		t.negative = snap.NegativeTopics
		t.positive = snap.PositiveTopics
		t.filters = domain.AppliedFilters{ProductID: t.product, ReviewCount: snap.Stats.Total}
		return t
	}

	reviews := analytics.FilterByDate(MapReviews(req.Reviews), dr)
	reviews = analytics.FilterByProduct(reviews, t.product)

	t.reviews = reviews
	t.stats = analytics.Aggregate(reviews)
	t.negative = analytics.ExtractTopics(reviews, domain.SentimentNegative, topicsK)
	t.positive = analytics.ExtractTopics(reviews, domain.SentimentPositive, topicsK)
	t.quotes = analytics.BuildQuotes(q, reviews, quotesK)
	t.filters = domain.AppliedFilters{DateRange: dr, ProductID: t.product, ReviewCount: len(reviews)}
	return t
}

// AnswerQuestion routes the question to the first matching intent. Only an empty question is an
// error; collaborator failures and panics become answers.
func (a *Assistant) AnswerQuestion(ctx context.Context, req AnswerRequest) (resp AnswerResponse, err error) {
	if strings.TrimSpace(req.Question) == "" {
		return AnswerResponse{}, &domain.InputError{Field: "question", Reason: "must not be empty"}
	}

	var t *turn
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("component", "assistant").Msg("answer pipeline panicked")
			resp = AnswerResponse{Answer: apologyAnswer, Model: ModelError}
			if t != nil {
				resp.AppliedFilters = t.filters
			}
			err = nil
		}
	}()

	t = a.prepare(req)
	for _, in := range a.intents {
		if !in.match(t) {
			continue
		}
		a.obs.IntentRouted(in.name)
		resp = in.handle(ctx, t)
		resp.AppliedFilters = t.filters
		return resp, nil
	}
	// routes() always ends with a catch-all
	return AnswerResponse{Answer: minimalAnswer(t.stats), Model: ModelMinimal, AppliedFilters: t.filters}, nil
}
