package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"reviewlens/internal/domain"
)

// ---- fakes ----

type fakeGenerator struct {
	mu    sync.Mutex
	calls []domain.CompletionRequest
	text  string
	model string
	err   error
	panic bool
}

func (g *fakeGenerator) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	if g.panic {
		panic("generator exploded")
	}
	if g.err != nil {
		return domain.Completion{}, g.err
	}
	return domain.Completion{Text: g.text, Model: g.model}, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// fakeCache stores JSON like the real caches do.
type fakeCache struct {
	mu     sync.Mutex
	store  map[string][]byte
	getErr error
	setErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// fakeClassifier: "good"/"great"/"love" means positive.
type fakeClassifier struct{}

func (fakeClassifier) Predict(texts []string) []domain.Prediction {
	out := make([]domain.Prediction, 0, len(texts))
	for _, t := range texts {
		l := strings.ToLower(t)
		s := domain.SentimentNegative
		if strings.Contains(l, "good") || strings.Contains(l, "great") || strings.Contains(l, "love") {
			s = domain.SentimentPositive
		}
		out = append(out, domain.Prediction{Text: t, Sentiment: s, Confidence: 0.9})
	}
	return out
}

type fakeSource struct {
	mu       sync.Mutex
	reviews  []domain.RawReview
	err      error
	criteria []domain.FetchCriteria
}

func (s *fakeSource) FetchReviews(ctx context.Context, c domain.FetchCriteria) ([]domain.RawReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = append(s.criteria, c)
	if s.err != nil {
		return nil, s.err
	}
	if c.Limit > 0 && len(s.reviews) > c.Limit {
		return s.reviews[:c.Limit], nil
	}
	return s.reviews, nil
}

type fakeWriter struct {
	format string
	got    domain.Report
	err    error
}

func (w *fakeWriter) Format() string      { return w.format }
func (w *fakeWriter) ContentType() string { return "text/plain" }
func (w *fakeWriter) Write(out io.Writer, r domain.Report) error {
	if w.err != nil {
		return w.err
	}
	w.got = r
	_, err := fmt.Fprintf(out, "%d rows", len(r.Rows))
	return err
}

type recordingObserver struct {
	mu      sync.Mutex
	intents []string
	steps   []string
}

func (o *recordingObserver) IntentRouted(intent string) {
	o.mu.Lock()
	o.intents = append(o.intents, intent)
	o.mu.Unlock()
}

func (o *recordingObserver) FallbackStep(step, outcome string) {
	o.mu.Lock()
	o.steps = append(o.steps, step+":"+outcome)
	o.mu.Unlock()
}

// ---- builders ----

func raw(rating float64, body, createdAt string) domain.RawReview {
	r := domain.RawReview{"rating": rating, "body": body}
	if createdAt != "" {
		r["created_at"] = createdAt
	}
	return r
}

func repeat(n int, r domain.RawReview) []domain.RawReview {
	out := make([]domain.RawReview, 0, n)
	for i := 0; i < n; i++ {
		c := domain.RawReview{}
		for k, v := range r {
			c[k] = v
		}
		c["id"] = fmt.Sprintf("%v-%d", r["body"], i)
		out = append(out, c)
	}
	return out
}

func fixedNow() time.Time { return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC) }

var errBoom = errors.New("boom")
