package app

import (
	"context"
	"fmt"
	"strings"

	"reviewlens/internal/analytics"
	"reviewlens/internal/domain"
)

// intent is one routing rule. Rules are evaluated in order; the first match answers.
type intent struct {
	name   string
	match  func(t *turn) bool
	handle func(ctx context.Context, t *turn) AnswerResponse
}

var (
	screenshotWords     = []string{"screenshot", "screen shot", "report layout", "dashboard layout", "what to capture"}
	exportWords         = []string{"export", "csv", "download", "excel", "spreadsheet"}
	quantityWords       = []string{"total", "how many", "koto", "koyta", "number of"}
	topicWords          = []string{"topic", "issue", "problem", "complain", "complaint", "praise", "pain point", "what do customers", "like about", "love about"}
	recommendationWords = []string{"recommend", "suggest", "advice", "advise", "improve", "what should", "next step", "action"}

	negativeWords = []string{"negative", "bad", "complain", "complaint", "issue", "problem", "kharap"}
	positiveWords = []string{"positive", "good", "happy", "praise", "like", "love", "best", "bhalo"}
	neutralWords  = []string{"neutral", "mixed"}
	ratingWords   = []string{"rating", "average", "stars", "score"}
)

func hasAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func (a *Assistant) routes() []intent {
	return []intent{
		{name: "screenshot", match: func(t *turn) bool { return hasAny(t.lower, screenshotWords) }, handle: a.answerScreenshot},
		{name: "export", match: func(t *turn) bool { return hasAny(t.lower, exportWords) }, handle: a.answerExport},
		{name: "quantity", match: func(t *turn) bool { return hasAny(t.lower, quantityWords) }, handle: a.answerQuantity},
		{name: "topics", match: func(t *turn) bool { return hasAny(t.lower, topicWords) }, handle: a.answerTopics},
		{name: "product_empty", match: func(t *turn) bool { return t.product != "" && t.stats.Total == 0 }, handle: a.answerProductEmpty},
		{name: "recommendations", match: func(t *turn) bool { return hasAny(t.lower, recommendationWords) }, handle: a.answerRecommendations},
		{name: "freeform", match: func(*turn) bool { return true }, handle: a.answerFreeform},
	}
}

func (a *Assistant) answerScreenshot(_ context.Context, t *turn) AnswerResponse {
	return AnswerResponse{Answer: screenshotGuidance(t.negative, t.positive), Model: ModelRuleBased}
}

func (a *Assistant) answerExport(context.Context, *turn) AnswerResponse {
	return AnswerResponse{Answer: exportGuidance, Model: ModelRuleBased}
}

func (a *Assistant) answerQuantity(_ context.Context, t *turn) AnswerResponse {
	st := t.stats
	var (
		keys    []string
		insight string
		next    []string
		ev      []string
	)
	switch {
	case hasAny(t.lower, negativeWords):
		keys = []string{countLine("Negative reviews", st.NegativeCount, st.Total, st.NegativePct)}
		if len(t.negative) > 0 {
			insight = "Most mentioned in negative reviews: " + topicList(t.negative[:min(3, len(t.negative))]) + "."
			next = []string{fmt.Sprintf("Read the negative reviews mentioning '%s'", t.negative[0].Keyword)}
		}
		ev = t.classQuotes(domain.SentimentNegative)
	case hasAny(t.lower, positiveWords):
		keys = []string{countLine("Positive reviews", st.PositiveCount, st.Total, st.PositivePct)}
		if len(t.positive) > 0 {
			insight = "Most praised: " + topicList(t.positive[:min(3, len(t.positive))]) + "."
			next = []string{fmt.Sprintf("Feature '%s' in product copy", t.positive[0].Keyword)}
		}
		ev = t.classQuotes(domain.SentimentPositive)
	case hasAny(t.lower, neutralWords):
		keys = []string{countLine("Neutral reviews", st.NeutralCount, st.Total, st.NeutralPct)}
		ev = t.classQuotes(domain.SentimentNeutral)
	case hasAny(t.lower, ratingWords):
		if st.AvgRating != nil {
			keys = []string{fmt.Sprintf("Average rating: %.2f / 5 across %d reviews", *st.AvgRating, st.Total)}
		} else {
			keys = []string{fmt.Sprintf("No numeric ratings among %d reviews", st.Total)}
		}
	default:
		keys = breakdown(st)
		insight = overallInsight(st, t.negative, t.positive)
		ev = t.quotes
	}
	if st.Total == 0 {
		insight = overallInsight(st, nil, nil)
	}
	return AnswerResponse{Answer: formatTemplate(keys, insight, next, ev), Model: ModelRuleBased, SuggestedActions: next}
}

func (a *Assistant) answerTopics(_ context.Context, t *turn) AnswerResponse {
	class, topics, label := domain.SentimentNegative, t.negative, "complaints"
	if hasAny(t.lower, positiveWords) && !hasAny(t.lower, negativeWords) {
		class, topics, label = domain.SentimentPositive, t.positive, "praise"
	}
	top := topics[:min(3, len(topics))]
	if len(top) == 0 {
		msg := fmt.Sprintf("No recurring %s topics found in %d reviews.", label, t.stats.Total)
		return AnswerResponse{Answer: msg, Model: ModelRuleBased}
	}

	keys := make([]string, 0, len(top))
	for i, tp := range top {
		keys = append(keys, fmt.Sprintf("%d) %s: %d mentions", i+1, tp.Keyword, tp.Count))
	}
	var next []string
	if class == domain.SentimentNegative {
		next = actionsFor(top)
	} else {
		for _, tp := range top {
			next = append(next, fmt.Sprintf("Highlight '%s' in listings and ads", tp.Keyword))
		}
	}
	insight := fmt.Sprintf("Top %s across %d reviews.", label, t.stats.Total)
	return AnswerResponse{
		Answer:           formatTemplate(keys, insight, next, t.topicSnippets(class, top, 2)),
		Model:            ModelRuleBased,
		SuggestedActions: next,
	}
}

func (a *Assistant) answerProductEmpty(_ context.Context, t *turn) AnswerResponse {
	msg := fmt.Sprintf("No reviews found for product %s", t.product)
	if t.filters.DateRange != nil {
		msg += " between " + t.filters.DateRange.String()
	}
	return AnswerResponse{Answer: msg + ". Try widening the date range or checking the product id.", Model: ModelRuleBased}
}

func (a *Assistant) answerRecommendations(_ context.Context, t *turn) AnswerResponse {
	var actions []string
	actions = append(actions, actionsFor(t.negative[:min(3, len(t.negative))])...)
	if len(t.positive) > 0 {
		actions = append(actions, fmt.Sprintf("Lean on '%s' in marketing, customers already praise it", t.positive[0].Keyword))
	}
	actions = append(actions, genericActions...)

	keys := []string{fmt.Sprintf("Based on %d reviews (%s negative)", t.stats.Total, pct(t.stats.NegativePct))}
	return AnswerResponse{
		Answer:           formatTemplate(keys, overallInsight(t.stats, t.negative, t.positive), actions, t.quotes),
		Model:            ModelRuleBased,
		SuggestedActions: actions,
	}
}

var genericActions = []string{
	"Reply to recent negative reviews within 48 hours",
	"Ask satisfied customers for photo reviews",
}

// actionByKeyword maps each vocabulary keyword to a fix for its category.
var actionByKeyword = func() map[string]string {
	groups := []struct {
		words  []string
		action string
	}{
		{[]string{"sizing", "size", "small", "large", "fit"}, "Add a detailed size chart and fit notes to the product page"},
		{[]string{"quality", "durable", "durability", "lasted"}, "Audit product quality with the supplier and tighten QA checks"},
		{[]string{"shipping", "delivery", "arrived", "package"}, "Review courier performance and packaging for transit damage"},
		{[]string{"battery", "charge", "charging"}, "Test battery life claims and update the listing to match"},
		{[]string{"support", "customer service", "help"}, "Shorten support response times and publish an FAQ"},
		{[]string{"price", "expensive", "cheap", "value"}, "Revisit pricing or bundle extras to lift perceived value"},
		{[]string{"material", "fabric", "color", "design"}, "Update photos and material descriptions to set accurate expectations"},
	}
	m := map[string]string{}
	for _, g := range groups {
		for _, w := range g.words {
			m[w] = g.action
		}
	}
	return m
}()

func actionsFor(topics []domain.TopicEntry) []string {
	var out []string
	seen := map[string]bool{}
	for _, tp := range topics {
		act, ok := actionByKeyword[tp.Keyword]
		if !ok || seen[act] {
			continue
		}
		seen[act] = true
		out = append(out, fmt.Sprintf("%s (%d '%s' mentions)", act, tp.Count, tp.Keyword))
	}
	return out
}

func (t *turn) classReviews(class domain.Sentiment) []domain.Review {
	var out []domain.Review
	for _, r := range t.reviews {
		if analytics.Classify(r) == class {
			out = append(out, r)
		}
	}
	return out
}

func (t *turn) classQuotes(class domain.Sentiment) []string {
	return analytics.BuildQuotes(t.question, t.classReviews(class), quotesK)
}

// topicSnippets finds up to n quotes from reviews of the class that mention one of the topics.
func (t *turn) topicSnippets(class domain.Sentiment, topics []domain.TopicEntry, n int) []string {
	var out []string
	seen := map[string]bool{}
	for _, tp := range topics {
		for _, r := range t.classReviews(class) {
			if !strings.Contains(strings.ToLower(r.Text()), tp.Keyword) {
				continue
			}
			q := analytics.Quote(r.Text(), analytics.QuoteMaxWords)
			if q == "" || seen[q] {
				continue
			}
			seen[q] = true
			out = append(out, q)
			break
		}
		if len(out) >= n {
			break
		}
	}
	return out
}
