package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reviewlens/internal/analytics"
	"reviewlens/internal/domain"
	"reviewlens/internal/sentiment"
)

const snippetChars = 100

type ExportRequest struct {
	Format    string             `json:"-"`
	Reviews   []domain.RawReview `json:"reviews"`
	Question  string             `json:"question,omitempty"`
	DateRange *domain.DateRange  `json:"date_range,omitempty"`
	ProductID string             `json:"product_id,omitempty"`
}

type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

// ExportService writes filtered reviews as csv, xlsx or docx.
type ExportService struct {
	resolver   *analytics.Resolver
	classifier domain.Classifier
	writers    map[string]domain.ReportWriter
	now        func() time.Time
}

func NewExportService(r *analytics.Resolver, c domain.Classifier, writers ...domain.ReportWriter) *ExportService {
	if r == nil {
		r = analytics.NewResolver(nil)
	}
	m := make(map[string]domain.ReportWriter, len(writers))
	for _, w := range writers {
		m[w.Format()] = w
	}
	return &ExportService{resolver: r, classifier: c, writers: m, now: time.Now}
}

func (s *ExportService) Formats() []string {
	out := make([]string, 0, len(s.writers))
	for f := range s.writers {
		out = append(out, f)
	}
	return out
}

func (s *ExportService) Export(_ context.Context, req ExportRequest) (ExportResult, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	w, ok := s.writers[format]
	if !ok {
		return ExportResult{}, &domain.InputError{Field: "format", Reason: fmt.Sprintf("unsupported export format %q", req.Format)}
	}

	rep := s.BuildReport(req)
	var buf bytes.Buffer
	if err := w.Write(&buf, rep); err != nil {
		return ExportResult{}, fmt.Errorf("write %s report: %w", format, err)
	}
	return ExportResult{
		Filename:    fmt.Sprintf("reviews-%s-%s.%s", rep.GeneratedAt.Format("20060102"), rep.ID[:8], format),
		ContentType: w.ContentType(),
		Body:        buf.Bytes(),
		Rows:        len(rep.Rows),
	}, nil
}

// BuildReport applies the same date and product filtering as questions do.
func (s *ExportService) BuildReport(req ExportRequest) domain.Report {
	dr := req.DateRange
	if r, ok := s.resolver.Resolve(req.Question); ok {
		dr = &r
	}
	reviews := analytics.FilterByDate(MapReviews(req.Reviews), dr)
	reviews = analytics.FilterByProduct(reviews, req.ProductID)

	texts := make([]string, len(reviews))
	for i, r := range reviews {
		texts[i] = r.Text()
	}
	var preds []domain.Prediction
	if s.classifier != nil {
		preds = s.classifier.Predict(texts)
	}

	rows := make([]domain.ReportRow, 0, len(reviews))
	for i, r := range reviews {
		row := domain.ReportRow{
			Rating:    r.Rating,
			Sentiment: analytics.Classify(r),
			Snippet:   sentiment.TruncateText(strings.TrimSpace(r.Text()), snippetChars, "..."),
			Product:   deref(r.ProductTitle),
			Reviewer:  analytics.MaskEmails(deref(r.ReviewerName)),
		}
		if r.CreatedAt != nil {
			row.Date = *r.CreatedAt
			if ts, ok := analytics.ParseTimestamp(*r.CreatedAt); ok {
				row.Date = ts.Format(domain.DateLayout)
			}
		}
		if i < len(preds) && strings.TrimSpace(texts[i]) != "" {
			row.Confidence = preds[i].Confidence
			if _, rated := analytics.ValidRating(r); !rated && r.Sentiment == nil {
				row.Sentiment = preds[i].Sentiment
			}
		}
		if r.Confidence != nil {
			row.Confidence = *r.Confidence
		}
		rows = append(rows, row)
	}

	title := "Review export"
	if dr != nil {
		title += " " + dr.String()
	}
	if p := strings.TrimSpace(req.ProductID); p != "" {
		title += " (product " + p + ")"
	}
	return domain.Report{
		ID:             uuid.NewString(),
		Title:          title,
		GeneratedAt:    s.now().UTC(),
		Filters:        domain.AppliedFilters{DateRange: dr, ProductID: strings.TrimSpace(req.ProductID), ReviewCount: len(reviews)},
		Stats:          analytics.Aggregate(reviews),
		NegativeTopics: analytics.ExtractTopics(reviews, domain.SentimentNegative, topicsK),
		PositiveTopics: analytics.ExtractTopics(reviews, domain.SentimentPositive, topicsK),
		Rows:           rows,
	}
}
