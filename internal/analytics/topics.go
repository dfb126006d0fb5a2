package analytics

import (
	"sort"
	"strings"

	"reviewlens/internal/domain"
)

// TopicVocabulary is scanned in this order; the order also breaks ties between first-seen keywords.
var TopicVocabulary = []string{
	"sizing", "size", "small", "large", "fit",
	"quality", "durable", "durability", "lasted",
	"shipping", "delivery", "arrived", "package",
	"battery", "charge", "charging",
	"support", "customer service", "help",
	"price", "expensive", "cheap", "value",
	"material", "fabric", "color", "design",
}

// ExtractTopics counts vocabulary keywords by plain substring containment in the bodies of
// reviews of the given class ("" scans every review), and returns the topK most mentioned.
// Overlapping keywords ("size" inside "sizing") each count.
func ExtractTopics(reviews []domain.Review, class domain.Sentiment, topK int) []domain.TopicEntry {
	counts := map[string]int{}
	var order []string

	for _, r := range reviews {
		if class != "" && Classify(r) != class {
			continue
		}
		body := strings.ToLower(r.Text())
		if body == "" {
			continue
		}
		for _, kw := range TopicVocabulary {
			if !strings.Contains(body, kw) {
				continue
			}
			if _, seen := counts[kw]; !seen {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	out := make([]domain.TopicEntry, 0, len(order))
	for _, kw := range order {
		out = append(out, domain.TopicEntry{Keyword: kw, Count: counts[kw]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if topK < 0 {
		topK = 0
	}
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}
