package sentiment

import (
	"math"

	"github.com/rs/zerolog/log"

	"reviewlens/internal/analytics"
	"reviewlens/internal/domain"
)

const (
	maxFeatures  = 1000
	penaltyC     = 1.0
	learningRate = 0.1
	epochs       = 3000
)

// Analyzer is a TF-IDF + logistic regression binary classifier trained once on the
// baseline corpus. It never changes after NewAnalyzer returns, so concurrent Predict calls are safe.
type Analyzer struct {
	vec  *vectorizer
	w    []float64
	bias float64
}

var _ domain.Classifier = (*Analyzer)(nil)

func NewAnalyzer() *Analyzer {
	docs := make([]string, 0, len(positiveCorpus)+len(negativeCorpus))
	docs = append(docs, positiveCorpus...)
	docs = append(docs, negativeCorpus...)
	labels := make([]float64, len(docs))
	for i := range positiveCorpus {
		labels[i] = 1
	}

	vec, rows := fitVectorizer(docs, maxFeatures)
	w, b := fitLogistic(rows, labels, len(vec.idf))
	log.Info().Int("reviews", len(docs)).Int("features", len(w)).Msg("sentiment model trained")
	return &Analyzer{vec: vec, w: w, bias: b}
}

// fitLogistic minimises 0.5*|w|^2 + C*sum(logloss) with full-batch gradient descent.
// The intercept is not penalised.
func fitLogistic(rows []vector, y []float64, dim int) ([]float64, float64) {
	w := make([]float64, dim)
	var b float64
	grad := make([]float64, dim)
	for range epochs {
		copy(grad, w)
		var gb float64
		for i, x := range rows {
			d := penaltyC * (sigmoid(x.dot(w)+b) - y[i])
			for _, f := range x {
				grad[f.idx] += d * f.val
			}
			gb += d
		}
		for j := range w {
			w[j] -= learningRate * grad[j]
		}
		b -= learningRate * gb
	}
	return w, b
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

// Probability is P(positive | text).
func (a *Analyzer) Probability(text string) float64 {
	return sigmoid(a.vec.transform(text).dot(a.w) + a.bias)
}

func (a *Analyzer) Predict(texts []string) []domain.Prediction {
	out := make([]domain.Prediction, 0, len(texts))
	for _, t := range texts {
		p := a.Probability(t)
		s := domain.SentimentNegative
		if p > 0.5 {
			s = domain.SentimentPositive
		}
		out = append(out, domain.Prediction{
			Text:       t,
			Sentiment:  s,
			Confidence: analytics.Round(math.Max(p, 1-p), 3),
		})
	}
	return out
}

// Summary counts predictions. Anything not positive is counted as negative.
type Summary struct {
	Total              int     `json:"total"`
	PositiveCount      int     `json:"positive_count"`
	NegativeCount      int     `json:"negative_count"`
	PositivePercentage float64 `json:"positive_percentage"`
	NegativePercentage float64 `json:"negative_percentage"`
}

func Summarize(preds []domain.Prediction) Summary {
	s := Summary{Total: len(preds)}
	if s.Total == 0 {
		return s
	}
	for _, p := range preds {
		if p.Sentiment == domain.SentimentPositive {
			s.PositiveCount++
		}
	}
	s.NegativeCount = s.Total - s.PositiveCount
	s.PositivePercentage = analytics.Percent(s.PositiveCount, s.Total)
	s.NegativePercentage = analytics.Percent(s.NegativeCount, s.Total)
	return s
}
