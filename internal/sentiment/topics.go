package sentiment

import (
	"sort"

	"reviewlens/internal/domain"
)

// Topic is a frequent word inside one predicted sentiment partition.
type Topic struct {
	Topic     string           `json:"topic"`
	Count     int              `json:"count"`
	Sentiment domain.Sentiment `json:"sentiment"`
}

// FrequencyTopics counts meaningful words per predicted sentiment and returns the topK of each,
// ties kept in first-occurrence order. Texts that are not predicted positive count as negative.
func FrequencyTopics(preds []domain.Prediction, topK int) (positive, negative []Topic) {
	var pos, neg wordCounter
	for _, p := range preds {
		words := ExtractWords(p.Text, true, 3)
		if p.Sentiment == domain.SentimentPositive {
			pos.add(words)
		} else {
			neg.add(words)
		}
	}
	return pos.top(topK, domain.SentimentPositive), neg.top(topK, domain.SentimentNegative)
}

type wordCounter struct {
	counts map[string]int
	order  []string
}

func (c *wordCounter) add(words []string) {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	for _, w := range words {
		if _, ok := c.counts[w]; !ok {
			c.order = append(c.order, w)
		}
		c.counts[w]++
	}
}

func (c *wordCounter) top(k int, s domain.Sentiment) []Topic {
	out := make([]Topic, 0, len(c.order))
	for _, w := range c.order {
		out = append(out, Topic{Topic: w, Count: c.counts[w], Sentiment: s})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
