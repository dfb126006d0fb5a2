package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"reviewlens/internal/domain"
)

const (
	StubModel     = "stub"
	contextMarker = "Context (JSON):"
)

// Stub is a deterministic, no-network generator for local runs and CI. It restates the
// key numbers from the prompt's JSON context.
type Stub struct{}

var _ domain.Generator = Stub{}

type stubContext struct {
	Stats          domain.Stats        `json:"stats"`
	NegativeTopics []domain.TopicEntry `json:"negative_topics"`
	PositiveTopics []domain.TopicEntry `json:"positive_topics"`
}

func (Stub) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	if err := ctx.Err(); err != nil {
		return domain.Completion{}, err
	}
	_, raw, ok := strings.Cut(req.User, contextMarker)
	if !ok {
		return domain.Completion{}, fmt.Errorf("stub: %w", domain.ErrGeneratorEmpty)
	}
	var c stubContext
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &c); err != nil {
		return domain.Completion{}, fmt.Errorf("stub: read context: %w", err)
	}

	s := c.Stats
	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on %d reviews: %d positive (%.1f%%), %d negative (%.1f%%), %d neutral (%.1f%%).",
		s.Total, s.PositiveCount, s.PositivePct, s.NegativeCount, s.NegativePct, s.NeutralCount, s.NeutralPct)
	if len(c.NegativeTopics) > 0 {
		fmt.Fprintf(&sb, " Top complaint: '%s'.", c.NegativeTopics[0].Keyword)
	}
	if len(c.PositiveTopics) > 0 {
		fmt.Fprintf(&sb, " Top praise: '%s'.", c.PositiveTopics[0].Keyword)
	}
	return domain.Completion{Text: sb.String(), Model: StubModel}, nil
}
