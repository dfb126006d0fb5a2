package sentiment

import (
	"regexp"
	"strings"
)

var (
	nonLetterRe = regexp.MustCompile(`[^a-z\s]`)
	spacesRe    = regexp.MustCompile(`\s+`)
)

// topicStopWords are filler and generic review words that would otherwise top every topic list.
var topicStopWords = toSet(
	"the", "a", "an", "and", "or", "but", "if", "then",
	"in", "on", "at", "to", "for", "of", "with", "by", "from", "about",
	"i", "me", "my", "mine", "we", "our", "us", "you", "your", "yours",
	"he", "she", "it", "they", "them", "their", "his", "her", "its",
	"this", "that", "these", "those",
	"is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "must",
	"can", "get", "got", "make", "made",
	"what", "which", "who", "when", "where", "why", "how",
	"all", "each", "every", "both", "few", "more", "most", "other",
	"some", "such", "no", "not", "only", "same", "so", "than", "too",
	"very", "just", "also", "now", "here", "there", "once",
	"one", "two", "first", "new", "way", "even", "back", "after",
	"use", "because", "any", "work", "well", "much", "really", "still",
	"own", "never", "say", "said",
	"great", "good", "bad", "best", "worst", "product", "item", "thing",
	"buy", "bought", "purchase", "purchased", "recommend", "recommended",
	"love", "like", "want", "need", "came", "amazon",
)

// CleanText lowercases text and keeps only ASCII letters and single spaces.
func CleanText(text string) string {
	t := nonLetterRe.ReplaceAllString(strings.ToLower(text), "")
	return strings.TrimSpace(spacesRe.ReplaceAllString(t, " "))
}

// ExtractWords returns the cleaned words of text that are at least minLen long.
func ExtractWords(text string, dropStopWords bool, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(CleanText(text)) {
		if len(w) < minLen {
			continue
		}
		if _, stop := topicStopWords[w]; dropStopWords && stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TruncateText cuts text to maxLen runes, the suffix included.
func TruncateText(text string, maxLen int, suffix string) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	cut := max(maxLen-len([]rune(suffix)), 0)
	return string(r[:cut]) + suffix
}

func IsValidReview(text string, minWords int) bool {
	return len(strings.Fields(text)) >= minWords
}

// BatchCleanReviews trims reviews and drops the ones shorter than two words.
func BatchCleanReviews(reviews []string) []string {
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if IsValidReview(r, 2) {
			out = append(out, strings.TrimSpace(r))
		}
	}
	return out
}
