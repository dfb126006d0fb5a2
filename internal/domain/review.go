package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RawReview is a review exactly as a source or caller delivered it. No key is guaranteed.
type RawReview = map[string]any

// Review is the tolerant, typed view of a RawReview. Every field is optional.
type Review struct {
	ID           *string  `json:"id,omitempty"`
	Body         *string  `json:"body,omitempty"`
	Title        *string  `json:"title,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Sentiment    *string  `json:"sentiment_label,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
	CreatedAt    *string  `json:"created_at,omitempty"`
	ProductID    *string  `json:"product_id,omitempty"`
	ProductTitle *string  `json:"product_title,omitempty"`
	ReviewerName *string  `json:"reviewer_name,omitempty"`
}

// Text returns the review body or "".
func (r Review) Text() string {
	if r.Body == nil {
		return ""
	}
	return *r.Body
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DateRange is an inclusive pair of calendar dates. Both ends are stored at midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from two calendar dates (time of day and zone are dropped).
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: CalendarDate(start), End: CalendarDate(end)}
}

// ParseDateRange parses two YYYY-MM-DD strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, strings.TrimSpace(start))
	if err != nil {
		return DateRange{}, &InputError{Field: "date_range.start", Reason: "expected YYYY-MM-DD"}
	}
	e, err := time.Parse(DateLayout, strings.TrimSpace(end))
	if err != nil {
		return DateRange{}, &InputError{Field: "date_range.end", Reason: "expected YYYY-MM-DD"}
	}
	return NewDateRange(s, e), nil
}

// CalendarDate keeps the wall-clock date of t at midnight UTC.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LastInstant is 23:59:59 of the range's end day.
func (r DateRange) LastInstant() time.Time {
	return CalendarDate(r.End).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

type dateRangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateRangeJSON{Start: r.Start.Format(DateLayout), End: r.End.Format(DateLayout)})
}

func (r *DateRange) UnmarshalJSON(b []byte) error {
	var raw dateRangeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	dr, err := ParseDateRange(raw.Start, raw.End)
	if err != nil {
		return err
	}
	*r = dr
	return nil
}

// Stats is the per-request aggregate over a filtered review set.
type Stats struct {
	Total         int      `json:"total"`
	PositiveCount int      `json:"positive_count"`
	NegativeCount int      `json:"negative_count"`
	NeutralCount  int      `json:"neutral_count"`
	PositivePct   float64  `json:"positive_pct"`
	NegativePct   float64  `json:"negative_pct"`
	NeutralPct    float64  `json:"neutral_pct"`
	AvgRating     *float64 `json:"avg_rating"`
}

// TopicEntry is a vocabulary keyword with its mention count inside one sentiment partition.
type TopicEntry struct {
	Keyword string `json:"topic"`
	Count   int    `json:"count"`
}

// Snapshot carries analytics a caller computed earlier for a product.
type Snapshot struct {
	Stats          Stats        `json:"stats"`
	NegativeTopics []TopicEntry `json:"negative_topics,omitempty"`
	PositiveTopics []TopicEntry `json:"positive_topics,omitempty"`
}

// AppliedFilters reports what actually narrowed the review set for an answer.
type AppliedFilters struct {
	DateRange   *DateRange `json:"date_range,omitempty"`
	ProductID   string     `json:"product_id,omitempty"`
	ReviewCount int        `json:"review_count"`
}

// Message is one prior conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
