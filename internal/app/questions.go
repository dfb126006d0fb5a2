package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"reviewlens/internal/analytics"
	"reviewlens/internal/domain"
)

// smallBatch is the review count below which a capped fetch is retried with the history limit.
const smallBatch = 50

type AskRequest struct {
	Question         string                `json:"question" jsonschema:"required"`
	Reviews          []domain.RawReview    `json:"reviews,omitempty"`
	Source           *domain.FetchCriteria `json:"source,omitempty"`
	DateRange        *domain.DateRange     `json:"date_range,omitempty"`
	ProductID        string                `json:"product_id,omitempty"`
	History          []domain.Message      `json:"history,omitempty"`
	ProductAnalytics *domain.Snapshot      `json:"product_analytics,omitempty"`
}

// QuestionService fetches reviews when a source is named, then hands over to the Assistant.
type QuestionService struct {
	analysis     *AnalysisService
	assistant    *Assistant
	resolver     *analytics.Resolver
	historyLimit int
}

func NewQuestionService(an *AnalysisService, as *Assistant, r *analytics.Resolver, historyLimit int) *QuestionService {
	if r == nil {
		r = analytics.NewResolver(nil)
	}
	return &QuestionService{analysis: an, assistant: as, resolver: r, historyLimit: historyLimit}
}

func (s *QuestionService) Ask(ctx context.Context, req AskRequest) (AnswerResponse, error) {
	reviews := req.Reviews
	if req.Source != nil {
		raws, err := s.fetchForQuestion(ctx, req)
		if err != nil {
			return AnswerResponse{}, err
		}
		reviews = raws
	}
	return s.assistant.AnswerQuestion(ctx, AnswerRequest{
		Question:         req.Question,
		Reviews:          reviews,
		DateRange:        req.DateRange,
		ProductID:        req.ProductID,
		History:          req.History,
		ProductAnalytics: req.ProductAnalytics,
	})
}

// fetchForQuestion retries at most once with the history limit when a capped fetch is unlikely to
// cover the question: a multi-year range, or a small batch.
func (s *QuestionService) fetchForQuestion(ctx context.Context, req AskRequest) ([]domain.RawReview, error) {
	crit := *req.Source
	if crit.Limit == 0 {
		crit.Limit = s.analysis.fetchLimit
	}
	raws, err := s.analysis.Fetch(ctx, crit)
	if err != nil {
		return nil, err
	}

	capped := len(raws) >= crit.Limit
	if !capped || s.historyLimit <= crit.Limit {
		return raws, nil
	}
	if !s.spansYears(req) && len(raws) >= smallBatch {
		return raws, nil
	}

	log.Info().Str("component", "question_service").Int("fetched", len(raws)).Int("limit", s.historyLimit).
		Msg("refetching with history limit")
	crit.Limit = s.historyLimit
	more, err := s.analysis.Fetch(ctx, crit)
	if err != nil {
		log.Warn().Err(err).Str("component", "question_service").Msg("history refetch failed, keeping first batch")
		return raws, nil
	}
	return more, nil
}

func (s *QuestionService) spansYears(req AskRequest) bool {
	dr := req.DateRange
	if r, ok := s.resolver.Resolve(req.Question); ok {
		dr = &r
	}
	return dr != nil && dr.End.Year() > dr.Start.Year()
}
