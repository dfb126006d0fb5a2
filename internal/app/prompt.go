package app

import (
	"encoding/json"
	"strings"

	"reviewlens/internal/domain"
)

const systemPrompt = `You are a review analytics assistant for an online store.
Answer ONLY from the JSON context you are given. Never invent numbers, percentages or quotes.
If the context does not contain the answer, say what is missing.
Reply in the language of the question, in at most 120 words.
Structure: key numbers first, then one insight, then up to three next steps.`

// promptContext is the only review data the generative model ever sees.
type promptContext struct {
	Filters        domain.AppliedFilters `json:"filters"`
	Stats          domain.Stats          `json:"stats"`
	NegativeTopics []domain.TopicEntry   `json:"negative_topics"`
	PositiveTopics []domain.TopicEntry   `json:"positive_topics"`
	Evidence       []string              `json:"evidence_quotes"`
}

func buildUserPrompt(t *turn) (string, error) {
	ctx := promptContext{
		Filters:        t.filters,
		Stats:          t.stats,
		NegativeTopics: nonNil(t.negative),
		PositiveTopics: nonNil(t.positive),
		Evidence:       nonNil(t.quotes),
	}
	b, err := json.Marshal(ctx)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(t.question)
	sb.WriteString("\n\nContext (JSON):\n")
	sb.Write(b)
	return sb.String(), nil
}

// recentHistory keeps the last historyN user/assistant turns with non-empty content.
func recentHistory(h []domain.Message) []domain.Message {
	var out []domain.Message
	for _, m := range h {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if (role != "user" && role != "assistant") || strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, domain.Message{Role: role, Content: m.Content})
	}
	if len(out) > historyN {
		out = out[len(out)-historyN:]
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
