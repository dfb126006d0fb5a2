package app

import (
	"fmt"
	"strings"

	"reviewlens/internal/domain"
)

const evidenceChars = 60

// formatTemplate renders the shared answer layout: key numbers, one insight, next steps and evidence.
func formatTemplate(keyNumbers []string, insight string, next []string, evidence []string) string {
	var b strings.Builder
	if len(keyNumbers) > 0 {
		b.WriteString("Answer:")
		for _, n := range keyNumbers {
			b.WriteString("\n- " + n)
		}
	}
	if insight != "" {
		b.WriteString("\n\n" + insight)
	}
	if len(next) > 0 {
		b.WriteString("\n\nNext:")
		for _, a := range next {
			b.WriteString("\n- " + a)
		}
	}
	if len(evidence) > 0 {
		b.WriteString("\n\nEvidence:")
		for i, ev := range evidence {
			if i == 3 {
				break
			}
			b.WriteString("\n- \"" + clip(ev, evidenceChars) + "\"")
		}
	}
	return strings.TrimLeft(b.String(), "\n")
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func countLine(label string, count, total int, p float64) string {
	return fmt.Sprintf("%s: %d of %d (%s)", label, count, total, pct(p))
}

func breakdown(st domain.Stats) []string {
	lines := []string{
		fmt.Sprintf("Total reviews: %d", st.Total),
		fmt.Sprintf("Positive: %d (%s)", st.PositiveCount, pct(st.PositivePct)),
		fmt.Sprintf("Negative: %d (%s)", st.NegativeCount, pct(st.NegativePct)),
		fmt.Sprintf("Neutral: %d (%s)", st.NeutralCount, pct(st.NeutralPct)),
	}
	if st.AvgRating != nil {
		lines = append(lines, fmt.Sprintf("Average rating: %.2f / 5", *st.AvgRating))
	}
	return lines
}

func topicPhrase(t domain.TopicEntry) string {
	return fmt.Sprintf("'%s' (%d mentions)", t.Keyword, t.Count)
}

func topicList(ts []domain.TopicEntry) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, topicPhrase(t))
	}
	return strings.Join(parts, ", ")
}

// overallInsight is the one-sentence reading of a stats block.
func overallInsight(st domain.Stats, neg, pos []domain.TopicEntry) string {
	if st.Total == 0 {
		return "No reviews match the current filters."
	}
	var s string
	switch {
	case st.PositiveCount > st.NegativeCount:
		s = "Sentiment leans positive"
	case st.NegativeCount > st.PositiveCount:
		s = "Sentiment leans negative"
	default:
		s = "Sentiment is evenly split"
	}
	switch {
	case len(neg) > 0 && len(pos) > 0:
		s += fmt.Sprintf("; the top complaint is %s and the top praise is %s.", topicPhrase(neg[0]), topicPhrase(pos[0]))
	case len(neg) > 0:
		s += fmt.Sprintf("; the top complaint is %s.", topicPhrase(neg[0]))
	case len(pos) > 0:
		s += fmt.Sprintf("; the top praise is %s.", topicPhrase(pos[0]))
	default:
		s += "."
	}
	return s
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func screenshotGuidance(neg, pos []domain.TopicEntry) string {
	var b strings.Builder
	b.WriteString("Screenshot checklist:\n")
	b.WriteString("1) Date range selector visible\n")
	b.WriteString("2) Analysis Report header + Export CSV button\n")
	b.WriteString("3) Sentiment distribution bar + total\n")
	if len(neg) > 0 {
		fmt.Fprintf(&b, "4) Top negative issue card: '%s' (%d mentions)\n", titleWord(neg[0].Keyword), neg[0].Count)
	}
	if len(pos) > 0 {
		fmt.Fprintf(&b, "5) Top positive highlight card: '%s' (%d mentions)\n", titleWord(pos[0].Keyword), pos[0].Count)
	}
	b.WriteString("6) Short topics list\n")
	b.WriteString("\nVariant: Add 3 example review cards with sentiment badges.")
	return b.String()
}

const exportGuidance = "CSV Export columns:\n" +
	"- date (created_at)\n" +
	"- rating (1-5)\n" +
	"- sentiment (positive/negative/neutral)\n" +
	"- confidence (0-1)\n" +
	"- text snippet (first 100 chars)\n" +
	"- product (product_title)\n" +
	"- reviewer (reviewer_name, masked if email)\n\n" +
	"Steps to export:\n" +
	"1) Set date range filter\n" +
	"2) Click 'Export CSV' button (or POST /v1/export/csv, xlsx and docx are also available)\n" +
	"3) Confirm filter scope matches your needs"

func minimalAnswer(st domain.Stats) string {
	return fmt.Sprintf("Total reviews: %d. Positive: %d, Negative: %d, Neutral: %d.",
		st.Total, st.PositiveCount, st.NegativeCount, st.NeutralCount)
}

const apologyAnswer = "Sorry, something went wrong while analysing these reviews. Please try again."
