package report

import (
	"fmt"
	"strings"

	"reviewlens/internal/domain"
)

// summaryLines is the label/value stats block shared by the xlsx and docx layouts.
func summaryLines(rep domain.Report) [][2]any {
	s := rep.Stats
	avg := "n/a"
	if s.AvgRating != nil {
		avg = fmt.Sprintf("%.2f", *s.AvgRating)
	}
	period := "all time"
	if rep.Filters.DateRange != nil {
		period = rep.Filters.DateRange.String()
	}
	lines := [][2]any{
		{"Period", period},
		{"Total reviews", s.Total},
		{"Positive", fmt.Sprintf("%d (%.1f%%)", s.PositiveCount, s.PositivePct)},
		{"Negative", fmt.Sprintf("%d (%.1f%%)", s.NegativeCount, s.NegativePct)},
		{"Neutral", fmt.Sprintf("%d (%.1f%%)", s.NeutralCount, s.NeutralPct)},
		{"Average rating", avg},
		{"Top complaints", topicLine(rep.NegativeTopics)},
		{"Top praise", topicLine(rep.PositiveTopics)},
	}
	if p := rep.Filters.ProductID; p != "" {
		lines = append(lines[:1], append([][2]any{{"Product", p}}, lines[1:]...)...)
	}
	return lines
}

func topicLine(ts []domain.TopicEntry) string {
	if len(ts) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, fmt.Sprintf("%s (%d)", t.Keyword, t.Count))
	}
	return strings.Join(parts, ", ")
}
