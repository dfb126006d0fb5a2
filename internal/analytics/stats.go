package analytics

import (
	"math"
	"strings"

	"reviewlens/internal/domain"
)

// ValidRating returns the review's rating when it is a number in [1,5].
func ValidRating(r domain.Review) (float64, bool) {
	if r.Rating == nil {
		return 0, false
	}
	v := *r.Rating
	if math.IsNaN(v) || v < 1 || v > 5 {
		return 0, false
	}
	return v, true
}

// Classify derives the sentiment class of one review. A valid rating wins over the label.
func Classify(r domain.Review) domain.Sentiment {
	if v, ok := ValidRating(r); ok {
		switch {
		case v >= 4:
			return domain.SentimentPositive
		case v <= 2:
			return domain.SentimentNegative
		default:
			return domain.SentimentNeutral
		}
	}
	if r.Sentiment != nil {
		switch domain.Sentiment(strings.ToLower(strings.TrimSpace(*r.Sentiment))) {
		case domain.SentimentPositive:
			return domain.SentimentPositive
		case domain.SentimentNegative:
			return domain.SentimentNegative
		}
	}
	return domain.SentimentNeutral
}

// Aggregate counts sentiment classes and averages valid ratings.
// Percentages are rounded independently and need not add up to 100.
func Aggregate(reviews []domain.Review) domain.Stats {
	var st domain.Stats
	st.Total = len(reviews)
	if st.Total == 0 {
		return st
	}

	var sum float64
	var rated int
	for _, r := range reviews {
		if v, ok := ValidRating(r); ok {
			sum += v
			rated++
		}
		switch Classify(r) {
		case domain.SentimentPositive:
			st.PositiveCount++
		case domain.SentimentNegative:
			st.NegativeCount++
		default:
			st.NeutralCount++
		}
	}

	st.PositivePct = Percent(st.PositiveCount, st.Total)
	st.NegativePct = Percent(st.NegativeCount, st.Total)
	st.NeutralPct = Percent(st.NeutralCount, st.Total)
	if rated > 0 {
		avg := Round(sum/float64(rated), 2)
		st.AvgRating = &avg
	}
	return st
}

// Percent is count/total*100 rounded to one decimal; 0 when total is 0.
func Percent(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(count)/float64(total)*100, 1)
}
