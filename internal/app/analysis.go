package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"reviewlens/internal/domain"
	"reviewlens/internal/sentiment"
)

const (
	SourceShopify = "shopify"
	SourceFeed    = "feed"

	maxFetchLimit = 10000
	sampleSize    = 10
)

type SampleReview struct {
	Text         string           `json:"text"`
	Sentiment    domain.Sentiment `json:"sentiment"`
	Confidence   float64          `json:"confidence"`
	ReviewerName *string          `json:"reviewer_name,omitempty"`
	ReviewDate   *string          `json:"review_date,omitempty"`
	ProductName  *string          `json:"product_name,omitempty"`
	ProductID    *string          `json:"product_id,omitempty"`
	Rating       *float64         `json:"rating,omitempty"`
}

type AnalysisResponse struct {
	AnalysisID         string            `json:"analysis_id"`
	TotalReviews       int               `json:"total_reviews"`
	PositiveCount      int               `json:"positive_count"`
	NegativeCount      int               `json:"negative_count"`
	PositivePercentage float64           `json:"positive_percentage"`
	NegativePercentage float64           `json:"negative_percentage"`
	TopPositiveTopics  []sentiment.Topic `json:"top_positive_topics"`
	TopNegativeTopics  []sentiment.Topic `json:"top_negative_topics"`
	SampleReviews      []SampleReview    `json:"sample_reviews"`
}

// AnalysisService classifies review batches, either supplied directly or fetched from a source.
type AnalysisService struct {
	classifier   domain.Classifier
	sources      map[string]domain.ReviewSource
	judgeMeToken string
	fetchLimit   int
}

func NewAnalysisService(c domain.Classifier, sources map[string]domain.ReviewSource, judgeMeToken string, fetchLimit int) *AnalysisService {
	if fetchLimit <= 0 {
		fetchLimit = 500
	}
	return &AnalysisService{classifier: c, sources: sources, judgeMeToken: judgeMeToken, fetchLimit: fetchLimit}
}

// AnalyzeTexts classifies texts. meta, when given, is index-aligned with texts and enriches the samples.
func (s *AnalysisService) AnalyzeTexts(texts []string, meta []domain.RawReview) (AnalysisResponse, error) {
	if len(texts) == 0 {
		return AnalysisResponse{}, &domain.InputError{Field: "reviews", Reason: "cannot be empty, provide at least one review"}
	}

	preds := s.classifier.Predict(texts)
	sum := sentiment.Summarize(preds)
	pos, neg := sentiment.FrequencyTopics(preds, topicsK)

	var typed []domain.Review
	if len(meta) > 0 {
		typed = MapReviews(meta)
	}
	samples := make([]SampleReview, 0, min(sampleSize, len(preds)))
	for i, p := range preds {
		if i == sampleSize {
			break
		}
		sr := SampleReview{Text: p.Text, Sentiment: p.Sentiment, Confidence: p.Confidence}
		if i < len(typed) {
			m := typed[i]
			sr.ReviewerName, sr.ReviewDate, sr.ProductName, sr.ProductID, sr.Rating =
				m.ReviewerName, m.CreatedAt, m.ProductTitle, m.ProductID, m.Rating
		}
		samples = append(samples, sr)
	}

	return AnalysisResponse{
		AnalysisID:         uuid.NewString(),
		TotalReviews:       sum.Total,
		PositiveCount:      sum.PositiveCount,
		NegativeCount:      sum.NegativeCount,
		PositivePercentage: sum.PositivePercentage,
		NegativePercentage: sum.NegativePercentage,
		TopPositiveTopics:  pos,
		TopNegativeTopics:  neg,
		SampleReviews:      samples,
	}, nil
}

// Fetch validates the criteria and pulls raw reviews from the named source.
func (s *AnalysisService) Fetch(ctx context.Context, c domain.FetchCriteria) ([]domain.RawReview, error) {
	c, err := s.normalize(c)
	if err != nil {
		return nil, err
	}
	src, ok := s.sources[c.Source]
	if !ok {
		return nil, &domain.InputError{Field: "source", Reason: fmt.Sprintf("unknown review source %q", c.Source)}
	}
	raws, err := src.FetchReviews(ctx, c)
	if err != nil {
		log.Warn().Err(err).Str("component", "review_source").Str("source", c.Source).Msg("fetch reviews failed")
		return nil, describeSourceError(err, c)
	}
	return raws, nil
}

// AnalyzeSource fetches reviews and classifies their bodies, keeping metadata for the samples.
func (s *AnalysisService) AnalyzeSource(ctx context.Context, c domain.FetchCriteria) (AnalysisResponse, error) {
	raws, err := s.Fetch(ctx, c)
	if err != nil {
		return AnalysisResponse{}, err
	}
	texts := make([]string, 0, len(raws))
	meta := make([]domain.RawReview, 0, len(raws))
	for i, r := range MapReviews(raws) {
		if b := strings.TrimSpace(r.Text()); b != "" {
			texts = append(texts, b)
			meta = append(meta, raws[i])
		}
	}
	if len(texts) == 0 {
		return AnalysisResponse{}, fmt.Errorf("%s: %w", c.Source, domain.ErrNoReviews)
	}
	return s.AnalyzeTexts(texts, meta)
}

func isJudgeMe(app string) bool {
	switch strings.ToLower(strings.TrimSpace(app)) {
	case "judge_me", "judge.me", "judgeme":
		return true
	}
	return false
}

func (s *AnalysisService) normalize(c domain.FetchCriteria) (domain.FetchCriteria, error) {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if c.Source == "" {
		c.Source = SourceShopify
	}
	if c.Limit == 0 {
		c.Limit = s.fetchLimit
	}
	if c.Limit < 1 || c.Limit > maxFetchLimit {
		return c, &domain.InputError{Field: "limit", Reason: fmt.Sprintf("must be between 1 and %d", maxFetchLimit)}
	}

	switch c.Source {
	case SourceShopify:
		if strings.TrimSpace(c.StoreDomain) == "" {
			return c, &domain.InputError{Field: "store_domain", Reason: "is required, e.g. mystore.myshopify.com"}
		}
		if strings.TrimSpace(c.AccessToken) == "" {
			return c, &domain.InputError{Field: "access_token", Reason: "is required, create one under Shopify Admin > Apps > Develop apps"}
		}
		if isJudgeMe(c.ReviewApp) && c.ReviewAppToken == "" {
			if s.judgeMeToken == "" {
				return c, &domain.InputError{Field: "review_app_token", Reason: "Judge.me API token is required, pass review_app_token or set JUDGE_ME_API_TOKEN"}
			}
			log.Info().Str("component", "review_source").Msg("using Judge.me API token from environment")
			c.ReviewAppToken = s.judgeMeToken
		}
	case SourceFeed:
		if strings.TrimSpace(c.FeedURL) == "" {
			return c, &domain.InputError{Field: "feed_url", Reason: "is required"}
		}
	}
	return c, nil
}

// describeSourceError adds a caller-facing hint while keeping the error chain intact.
func describeSourceError(err error, c domain.FetchCriteria) error {
	var se *domain.StatusError
	switch {
	case isJudgeMe(c.ReviewApp) && (errors.Is(err, domain.ErrSourceAuth) || errors.As(err, &se) && se.Service == "judge.me"):
		return fmt.Errorf("judge.me API error (verify the Judge.me API token and shop domain): %w", err)
	case errors.Is(err, domain.ErrSourceAuth):
		return fmt.Errorf("%s rejected the credentials: %w", c.Source, err)
	case errors.Is(err, domain.ErrSourceNotFound):
		return fmt.Errorf("%s store or feed not found: %w", c.Source, err)
	}
	return err
}
