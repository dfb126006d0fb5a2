package app_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewlens/internal/analytics"
	"reviewlens/internal/app"
	"reviewlens/internal/domain"
)

func newQuestionService(src *fakeSource, fetchLimit, historyLimit int) *app.QuestionService {
	an := app.NewAnalysisService(fakeClassifier{}, map[string]domain.ReviewSource{app.SourceShopify: src}, "", fetchLimit)
	return app.NewQuestionService(an, newAssistant(nil, nil), analytics.NewResolver(fixedNow), historyLimit)
}

func manyReviews(n int, createdAt string) []domain.RawReview {
	out := make([]domain.RawReview, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.RawReview{"id": fmt.Sprint(i), "body": "ok", "rating": 4, "created_at": createdAt})
	}
	return out
}

func shopCriteria() *domain.FetchCriteria {
	return &domain.FetchCriteria{StoreDomain: "shop", AccessToken: "tok"}
}

func TestAsk_UsesSuppliedReviewsWithoutFetching(t *testing.T) {
	src := &fakeSource{}
	resp, err := newQuestionService(src, 10, 100).Ask(context.Background(), app.AskRequest{
		Question: "how many reviews in total",
		Reviews:  manyReviews(3, "2026-03-01"),
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "Total reviews: 3")
	assert.Empty(t, src.criteria)
}

func TestAsk_MultiYearQuestionRefetchesOnce(t *testing.T) {
	src := &fakeSource{reviews: manyReviews(250, "2024-06-01")}
	resp, err := newQuestionService(src, 100, 1000).Ask(context.Background(), app.AskRequest{
		Question: "how many reviews from 2023 to 2025 in total",
		Source:   shopCriteria(),
	})
	require.NoError(t, err)
	require.Len(t, src.criteria, 2)
	assert.Equal(t, 100, src.criteria[0].Limit)
	assert.Equal(t, 1000, src.criteria[1].Limit)
	assert.Contains(t, resp.Answer, "Total reviews: 250")
}

func TestAsk_SmallCappedBatchRefetches(t *testing.T) {
	src := &fakeSource{reviews: manyReviews(80, "2026-03-01")}
	resp, err := newQuestionService(src, 20, 500).Ask(context.Background(), app.AskRequest{
		Question: "how many reviews in total",
		Source:   shopCriteria(),
	})
	require.NoError(t, err)
	require.Len(t, src.criteria, 2)
	assert.Contains(t, resp.Answer, "Total reviews: 80")
}

func TestAsk_NoRefetchWhenNotCapped(t *testing.T) {
	src := &fakeSource{reviews: manyReviews(30, "2024-06-01")}
	_, err := newQuestionService(src, 100, 1000).Ask(context.Background(), app.AskRequest{
		Question: "from 2023 to 2025 how many in total",
		Source:   shopCriteria(),
	})
	require.NoError(t, err)
	assert.Len(t, src.criteria, 1)
}

func TestAsk_NoRefetchForLargeSingleYearBatch(t *testing.T) {
	src := &fakeSource{reviews: manyReviews(300, "2026-03-01")}
	_, err := newQuestionService(src, 100, 1000).Ask(context.Background(), app.AskRequest{
		Question: "how many reviews this month",
		Source:   shopCriteria(),
	})
	require.NoError(t, err)
	assert.Len(t, src.criteria, 1)
}

func TestAsk_FetchFailureSurfaces(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("products.json: %w", domain.ErrSourceUnavailable)}
	_, err := newQuestionService(src, 100, 1000).Ask(context.Background(), app.AskRequest{
		Question: "how many",
		Source:   shopCriteria(),
	})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
