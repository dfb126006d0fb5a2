package analytics

import (
	"regexp"
	"sort"
	"strings"

	"reviewlens/internal/domain"
)

const (
	QuoteMaxWords    = 12
	DefaultMaxQuotes = 3
	minRetrieveK     = 8
)

var (
	emailRe   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	nonTermRe = regexp.MustCompile(`[^a-z0-9\s]`)
)

// QueryTerms lowercases q, blanks everything outside [a-z0-9] and keeps words of 3+ characters.
func QueryTerms(q string) []string {
	q = nonTermRe.ReplaceAllString(strings.ToLower(q), " ")
	var terms []string
	for _, w := range strings.Fields(q) {
		if len(w) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

// Retrieve ranks reviews by lexical overlap with the question: +2 per term in the body,
// +1 per term in the product title. Unscored reviews pad the result in input order,
// so it always holds min(k, len(reviews)) items.
func Retrieve(question string, reviews []domain.Review, k int) []domain.Review {
	if len(reviews) == 0 || k <= 0 {
		return nil
	}
	k = min(k, len(reviews))
	terms := QueryTerms(question)
	if len(terms) == 0 {
		return append([]domain.Review(nil), reviews[:k]...)
	}

	type scored struct {
		idx   int
		score int
	}
	var hits []scored
	for i, r := range reviews {
		body := strings.ToLower(r.Text())
		title := ""
		if r.ProductTitle != nil {
			title = strings.ToLower(*r.ProductTitle)
		}
		score := 0
		for _, t := range terms {
			if strings.Contains(body, t) {
				score += 2
			}
			if strings.Contains(title, t) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{idx: i, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]domain.Review, 0, k)
	taken := make(map[int]bool, k)
	for _, h := range hits {
		if len(out) == k {
			break
		}
		out = append(out, reviews[h.idx])
		taken[h.idx] = true
	}
	for i := 0; i < len(reviews) && len(out) < k; i++ {
		if !taken[i] {
			out = append(out, reviews[i])
		}
	}
	return out
}

// BuildQuotes renders up to maxQuotes distinct, email-masked quotes of at most 12 words
// from the reviews most relevant to the question.
func BuildQuotes(question string, reviews []domain.Review, maxQuotes int) []string {
	if maxQuotes <= 0 {
		maxQuotes = DefaultMaxQuotes
	}
	picks := Retrieve(question, reviews, max(minRetrieveK, maxQuotes))
	quotes := make([]string, 0, maxQuotes)
	seen := map[string]bool{}
	for _, r := range picks {
		txt := strings.TrimSpace(r.Text())
		if txt == "" {
			continue
		}
		q := Quote(txt, QuoteMaxWords)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		quotes = append(quotes, q)
		if len(quotes) >= maxQuotes {
			break
		}
	}
	return quotes
}

// Quote masks emails, collapses whitespace and cuts the text to maxWords words plus "…".
func Quote(text string, maxWords int) string {
	words := strings.Fields(MaskEmails(text))
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "…"
}

// MaskEmails rewrites user@domain.tld as u***@domain.tld.
func MaskEmails(text string) string {
	return emailRe.ReplaceAllStringFunc(text, func(email string) string {
		local, dom, ok := strings.Cut(email, "@")
		if !ok {
			return "***@***"
		}
		if local == "" {
			return "***@" + dom
		}
		return local[:1] + "***@" + dom
	})
}
