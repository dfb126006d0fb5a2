package app_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewlens/internal/app"
	"reviewlens/internal/domain"
)

func TestMapReviews_Aliases(t *testing.T) {
	var fromJSON domain.RawReview
	require.NoError(t, json.Unmarshal([]byte(`{
		"review_id": 991,
		"text": "Nice lamp",
		"stars": "4,5",
		"sentiment": "positive",
		"date": "2026-02-01T10:00:00Z",
		"product": {"id": 12, "title": "Lamp"},
		"author": "Ana"
	}`), &fromJSON))

	got := app.MapReviews([]domain.RawReview{fromJSON})
	require.Len(t, got, 1)
	r := got[0]
	assert.Equal(t, "991", *r.ID)
	assert.Equal(t, "Nice lamp", *r.Body)
	assert.Equal(t, 4.5, *r.Rating)
	assert.Equal(t, "positive", *r.Sentiment)
	assert.Equal(t, "2026-02-01T10:00:00Z", *r.CreatedAt)
	assert.Equal(t, "12", *r.ProductID)
	assert.Equal(t, "Lamp", *r.ProductTitle)
	assert.Equal(t, "Ana", *r.ReviewerName)
}

func TestMapReviews_MalformedFieldsAreNil(t *testing.T) {
	got := app.MapReviews([]domain.RawReview{
		{"body": "  ", "rating": "five", "created_at": 12.5, "reviewer_name": []any{"x"}},
		nil,
	})
	require.Len(t, got, 2)
	r := got[0]
	assert.Nil(t, r.Body)
	assert.Nil(t, r.Rating)
	assert.Nil(t, r.ReviewerName)
	require.NotNil(t, r.ID)
	assert.Equal(t, domain.Review{}, got[1])
}

func TestMapReviews_SynthesizedIDIsStable(t *testing.T) {
	in := domain.RawReview{"body": "same text", "rating": 3, "created_at": "2026-01-01"}
	a := app.MapReviews([]domain.RawReview{in})[0]
	b := app.MapReviews([]domain.RawReview{in})[0]
	c := app.MapReviews([]domain.RawReview{{"body": "other text", "rating": 3}})[0]
	assert.Equal(t, *a.ID, *b.ID)
	assert.NotEqual(t, *a.ID, *c.ID)
	assert.Len(t, *a.ID, 40)
}
