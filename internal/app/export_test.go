package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewlens/internal/analytics"
	"reviewlens/internal/app"
	"reviewlens/internal/domain"
)

func TestExport_FiltersAndBuildsRows(t *testing.T) {
	w := &fakeWriter{format: "csv"}
	svc := app.NewExportService(analytics.NewResolver(fixedNow), fakeClassifier{}, w)

	long := strings.Repeat("word ", 40)
	res, err := svc.Export(context.Background(), app.ExportRequest{
		Format:   "CSV",
		Question: "export the last 7 days",
		Reviews: []domain.RawReview{
			{"body": long, "rating": 1, "created_at": "2026-03-10T08:00:00Z", "reviewer_name": "jane@example.com", "product_title": "Lamp"},
			{"body": "love it", "created_at": "2026-03-12"},
			{"body": "old one", "rating": 5, "created_at": "2025-01-01"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", res.ContentType)
	assert.Equal(t, "2 rows", string(res.Body))
	assert.True(t, strings.HasPrefix(res.Filename, "reviews-"))
	assert.True(t, strings.HasSuffix(res.Filename, ".csv"))

	rep := w.got
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, 2, rep.Stats.Total)
	assert.Equal(t, "2026-03-08 to 2026-03-15", rep.Filters.DateRange.String())

	first := rep.Rows[0]
	assert.Equal(t, "2026-03-10", first.Date)
	assert.Equal(t, domain.SentimentNegative, first.Sentiment)
	assert.Equal(t, "j***@example.com", first.Reviewer)
	assert.Equal(t, "Lamp", first.Product)
	assert.Equal(t, 100, len([]rune(first.Snippet)))
	assert.True(t, strings.HasSuffix(first.Snippet, "..."))
	assert.Equal(t, 0.9, first.Confidence)

	// no rating and no label: the classifier decides
	assert.Equal(t, domain.SentimentPositive, rep.Rows[1].Sentiment)
	assert.Nil(t, rep.Rows[1].Rating)
}

func TestExport_ProductFilterAndPriorRange(t *testing.T) {
	w := &fakeWriter{format: "xlsx"}
	svc := app.NewExportService(analytics.NewResolver(fixedNow), fakeClassifier{}, w)
	dr, err := domain.ParseDateRange("2025-01-01", "2025-12-31")
	require.NoError(t, err)

	_, err = svc.Export(context.Background(), app.ExportRequest{
		Format:    "xlsx",
		DateRange: &dr,
		ProductID: "7",
		Reviews: []domain.RawReview{
			{"body": "a", "product_id": 7, "created_at": "2025-05-05"},
			{"body": "b", "product_id": "8", "created_at": "2025-05-05"},
			{"body": "c", "product_id": "7", "created_at": "2026-05-05"},
		},
	})
	require.NoError(t, err)
	require.Len(t, w.got.Rows, 1)
	assert.Contains(t, w.got.Title, "(product 7)")
}

func TestExport_UnknownFormat(t *testing.T) {
	svc := app.NewExportService(nil, fakeClassifier{}, &fakeWriter{format: "csv"})
	_, err := svc.Export(context.Background(), app.ExportRequest{Format: "pdf"})
	var inErr *domain.InputError
	require.ErrorAs(t, err, &inErr)
	assert.Equal(t, "format", inErr.Field)
}

func TestExport_WriterErrorIsWrapped(t *testing.T) {
	svc := app.NewExportService(nil, fakeClassifier{}, &fakeWriter{format: "docx", err: errBoom})
	_, err := svc.Export(context.Background(), app.ExportRequest{Format: "docx"})
	assert.ErrorIs(t, err, errBoom)
}
