package domain

import (
	"context"
	"io"
	"time"
)

// FetchCriteria selects reviews from an external source.
type FetchCriteria struct {
	Source         string `json:"source"` // shopify|feed
	StoreDomain    string `json:"store_domain,omitempty"`
	AccessToken    string `json:"access_token,omitempty"`
	ReviewApp      string `json:"review_app,omitempty"`
	ReviewAppToken string `json:"review_app_token,omitempty"`
	FeedURL        string `json:"feed_url,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

// ReviewSource fetches raw reviews. Zero reviews is a nil error with an empty slice;
// connectivity and credential failures wrap ErrSourceUnavailable / ErrSourceAuth.
type ReviewSource interface {
	FetchReviews(ctx context.Context, c FetchCriteria) ([]RawReview, error)
}

type CompletionRequest struct {
	System      string
	User        string
	History     []Message
	Model       string
	Temperature float64
	MaxTokens   int
}

// Messages lays a request out as the chat transcript sent to the model.
func (r CompletionRequest) Messages() []Message {
	msgs := make([]Message, 0, len(r.History)+2)
	if r.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: r.System})
	}
	msgs = append(msgs, r.History...)
	return append(msgs, Message{Role: "user", Content: r.User})
}

type Completion struct {
	Text   string
	Model  string
	Cached bool
}

// Generator is the hosted text-generation collaborator.
type Generator interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Report is a filtered review set ready to be written as csv, xlsx or docx.
type Report struct {
	ID             string
	Title          string
	GeneratedAt    time.Time
	Filters        AppliedFilters
	Stats          Stats
	NegativeTopics []TopicEntry
	PositiveTopics []TopicEntry
	Rows           []ReportRow
}

type ReportRow struct {
	Date       string
	Rating     *float64
	Sentiment  Sentiment
	Confidence float64
	Snippet    string
	Product    string
	Reviewer   string
}

// Prediction is one classifier verdict. Sentiment is positive or negative only.
type Prediction struct {
	Text       string    `json:"text"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
}

// Classifier labels review texts. Implementations are read-only after construction.
type Classifier interface {
	Predict(texts []string) []Prediction
}

// ReportWriter renders a Report in one file format.
type ReportWriter interface {
	Format() string
	ContentType() string
	Write(w io.Writer, r Report) error
}
