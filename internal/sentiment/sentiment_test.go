package sentiment_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewlens/internal/domain"
	"reviewlens/internal/sentiment"
)

var analyzer = sentiment.NewAnalyzer()

func TestAnalyzer_SeparatesClearCases(t *testing.T) {
	preds := analyzer.Predict([]string{
		"Outstanding quality and fast delivery",
		"Waste of money, very poor quality",
		"Absolutely love this, exceeded expectations",
		"Terrible product, waste of money",
	})
	require.Len(t, preds, 4)
	assert.Equal(t, domain.SentimentPositive, preds[0].Sentiment)
	assert.Equal(t, domain.SentimentNegative, preds[1].Sentiment)
	assert.Equal(t, domain.SentimentPositive, preds[2].Sentiment)
	assert.Equal(t, domain.SentimentNegative, preds[3].Sentiment)
	assert.Equal(t, "Terrible product, waste of money", preds[3].Text)

	for _, p := range preds {
		assert.GreaterOrEqual(t, p.Confidence, 0.5)
		assert.LessOrEqual(t, p.Confidence, 1.0)
		assert.Equal(t, p.Confidence, float64(int(p.Confidence*1000+0.5))/1000)
	}
}

func TestAnalyzer_ProbabilityIsOrdered(t *testing.T) {
	good := analyzer.Probability("amazing, highly recommend, fast delivery")
	bad := analyzer.Probability("horrible, broken, waste of money")
	assert.Greater(t, good, 0.5)
	assert.Less(t, bad, 0.5)
}

func TestAnalyzer_ConcurrentPredict(t *testing.T) {
	want := analyzer.Predict([]string{"great quality"})[0]
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, analyzer.Predict([]string{"great quality"})[0])
		}()
	}
	wg.Wait()
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, sentiment.Summary{}, sentiment.Summarize(nil))

	s := sentiment.Summarize([]domain.Prediction{
		{Sentiment: domain.SentimentPositive},
		{Sentiment: domain.SentimentNegative},
		{Sentiment: domain.SentimentPositive},
	})
	assert.Equal(t, sentiment.Summary{
		Total: 3, PositiveCount: 2, NegativeCount: 1,
		PositivePercentage: 66.7, NegativePercentage: 33.3,
	}, s)
}

func TestFrequencyTopics(t *testing.T) {
	preds := []domain.Prediction{
		{Text: "Battery drains fast, battery swollen", Sentiment: domain.SentimentNegative},
		{Text: "The screen is bright and the battery lasts", Sentiment: domain.SentimentPositive},
		{Text: "Screen cracked; shipping slow", Sentiment: domain.SentimentNegative},
		{Text: "Bright screen!", Sentiment: domain.SentimentPositive},
	}
	pos, neg := sentiment.FrequencyTopics(preds, 2)

	assert.Equal(t, []sentiment.Topic{
		{Topic: "screen", Count: 2, Sentiment: domain.SentimentPositive},
		{Topic: "bright", Count: 2, Sentiment: domain.SentimentPositive},
	}, pos)
	assert.Equal(t, []sentiment.Topic{
		{Topic: "battery", Count: 2, Sentiment: domain.SentimentNegative},
		{Topic: "drains", Count: 1, Sentiment: domain.SentimentNegative},
	}, neg)
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "hello world", sentiment.CleanText("  Hello,   World! 123 "))
	assert.Equal(t, []string{"battery", "amazing"}, sentiment.ExtractWords("The battery is amazing!", true, 3))
	assert.Equal(t, []string{"the", "battery", "amazing"}, sentiment.ExtractWords("The battery is amazing!", false, 3))

	assert.Equal(t, "This is...", sentiment.TruncateText("This is a very long text", 10, "..."))
	assert.Equal(t, "short", sentiment.TruncateText("short", 10, "..."))

	assert.False(t, sentiment.IsValidReview("Good", 2))
	assert.True(t, sentiment.IsValidReview("Great product!", 2))
	assert.False(t, sentiment.IsValidReview("   ", 2))

	assert.Equal(t, []string{"Great product!", "works fine"},
		sentiment.BatchCleanReviews([]string{"  Great product!  ", "meh", "", "works fine"}))
}
