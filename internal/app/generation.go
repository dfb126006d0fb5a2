package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"reviewlens/internal/domain"
)

// CachedGenerator serves repeated prompts from a cache. Only successful completions are stored
// and cache failures never fail a call.
type CachedGenerator struct {
	next     domain.Generator
	cache    domain.Cache
	cacheTTL time.Duration
}

var _ domain.Generator = (*CachedGenerator)(nil)

func NewCachedGenerator(next domain.Generator, c domain.Cache, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{next: next, cache: c, cacheTTL: ttl}
}

type cachedCompletion struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

func (g *CachedGenerator) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	key := CompletionKey(req)
	if g.cache != nil {
		var hit cachedCompletion
		ok, err := g.cache.Get(ctx, key, &hit)
		if err != nil {
			log.Warn().Err(err).Str("component", "generator_cache").Msg("cache get failed")
		}
		if ok && hit.Text != "" {
			return domain.Completion{Text: hit.Text, Model: hit.Model, Cached: true}, nil
		}
	}

	c, err := g.next.Complete(ctx, req)
	if err != nil {
		return domain.Completion{}, err
	}
	if g.cache != nil && strings.TrimSpace(c.Text) != "" {
		if err := g.cache.Set(ctx, key, cachedCompletion{Text: c.Text, Model: c.Model}, int(g.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("component", "generator_cache").Msg("cache set failed")
		}
	}
	return c, nil
}

// CompletionKey hashes model, sampling parameters and the full transcript.
func CompletionKey(req domain.CompletionRequest) string {
	payload, _ := json.Marshal(req.Messages())
	raw := strings.Join([]string{
		req.Model,
		strconv.FormatFloat(req.Temperature, 'f', -1, 64),
		strconv.Itoa(req.MaxTokens),
		string(payload),
	}, "||")
	sum := sha256.Sum256([]byte(raw))
	return "completion:" + hex.EncodeToString(sum[:])
}
