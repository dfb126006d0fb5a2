package shopify

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"reviewlens/internal/adapters/restclient"
	"reviewlens/internal/domain"
)

const minReviewChars = 10

var reviewNamespaces = []string{"reviews", "spr", "judgeme", "loox", "yotpo"}

// App describes a third-party review app a store may use.
type App struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	APIDocs     string `json:"api_docs"`
	HasFreeTier bool   `json:"has_free_tier"`
}

// SupportedApps lists the review apps stores commonly use. Only Judge.me is fetched through its API.
func SupportedApps() []App {
	return []App{
		{Key: "judge_me", Name: "Judge.me", APIDocs: "https://judge.me/api/docs", HasFreeTier: true},
		{Key: "loox", Name: "Loox", APIDocs: "https://help.loox.app/", HasFreeTier: false},
		{Key: "yotpo", Name: "Yotpo", APIDocs: "https://developers.yotpo.com/", HasFreeTier: false},
		{Key: "stamped", Name: "Stamped.io", APIDocs: "https://stamped.io/docs/", HasFreeTier: true},
	}
}

// Source implements domain.ReviewSource for Shopify stores.
type Source struct {
	cfg     Config
	admin   *restclient.Client
	judgeMe *restclient.Client
}

func New(cfg Config) *Source {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.JudgeMeBase == "" {
		cfg.JudgeMeBase = DefaultJudgeMeBase
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Source{
		cfg:     cfg,
		admin:   restclient.New("shopify", cfg.RPS, cfg.Timeout, cfg.HTTPClient),
		judgeMe: restclient.New("judge.me", cfg.RPS, cfg.Timeout, cfg.HTTPClient),
	}
}

func (s *Source) FetchReviews(ctx context.Context, c domain.FetchCriteria) ([]domain.RawReview, error) {
	if c.Limit <= 0 {
		return nil, &domain.InputError{Field: "limit", Reason: "must be between 1 and 10000"}
	}
	admin := newAdminClient(s.admin, s.cfg, c.StoreDomain, c.AccessToken)
	if err := admin.VerifyConnection(ctx); err != nil {
		return nil, err
	}

	var judgeMeErr error
	if isJudgeMe(c.ReviewApp) && c.ReviewAppToken != "" {
		jm := &JudgeMeClient{rc: s.judgeMe, base: strings.TrimRight(s.cfg.JudgeMeBase, "/"), shop: strings.TrimSpace(c.StoreDomain), token: c.ReviewAppToken}
		reviews, err := jm.Reviews(ctx, c.Limit)
		switch {
		case err != nil:
			judgeMeErr = err
			log.Warn().Err(err).Str("component", "shopify").Msg("judge.me fetch failed, scanning metafields")
		case len(reviews) > 0:
			return cleanReviews(reviews, c.Limit), nil
		}
	}

	reviews, err := s.scanMetafields(ctx, admin, c.Limit)
	if err != nil {
		return nil, err
	}
	reviews = cleanReviews(reviews, c.Limit)
	if len(reviews) == 0 && judgeMeErr != nil {
		return nil, judgeMeErr
	}
	return reviews, nil
}

// scanMetafields reads review-like metafields across the store's products with bounded
// concurrency. Products are visited in listing order and the scan stops once limit is reached.
func (s *Source) scanMetafields(ctx context.Context, admin *AdminClient, limit int) ([]domain.RawReview, error) {
	products, err := admin.Products(ctx, maxProductsPage)
	if err != nil {
		return nil, err
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(s.cfg.Workers))
	perProduct := make([][]domain.RawReview, len(products))
	var (
		mu    sync.Mutex
		found int
		wg    sync.WaitGroup
	)

	for i, p := range products {
		if err := sem.Acquire(ctx, 1); err != nil {
			break // limit reached or caller gave up
		}
		mu.Lock()
		done := found >= limit
		mu.Unlock()
		if done {
			sem.Release(1)
			break
		}

		wg.Add(1)
		go func(i int, p Product) {
			defer wg.Done()
			defer sem.Release(1)

			fields, err := admin.Metafields(ctx, p.ID)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Int64("product_id", p.ID).Str("component", "shopify").Msg("metafields skipped")
				}
				return
			}
			var got []domain.RawReview
			for _, text := range reviewTexts(fields) {
				got = append(got, domain.RawReview{"body": text, "product_id": p.ID, "product_title": p.Title})
			}
			mu.Lock()
			perProduct[i] = got
			found += len(got)
			if found >= limit {
				cancel()
			}
			mu.Unlock()
		}(i, p)
	}
	wg.Wait()
	if err := parent.Err(); err != nil {
		return nil, err
	}

	var out []domain.RawReview
	for _, rs := range perProduct {
		out = append(out, rs...)
	}
	return out, nil
}

// reviewTexts keeps string values longer than 10 characters from review namespaces, or from
// keys mentioning "review".
func reviewTexts(fields []Metafield) []string {
	var out []string
	for _, mf := range fields {
		ns := strings.ToLower(mf.Namespace)
		key := strings.ToLower(mf.Key)
		v, ok := mf.Value.(string)
		if !ok || utf8.RuneCountInString(v) <= minReviewChars {
			continue
		}
		if containsAny(ns, reviewNamespaces) || strings.Contains(key, "review") {
			out = append(out, v)
		}
	}
	return out
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// stripHTML removes tags and collapses whitespace.
func stripHTML(s string) string {
	return strings.Join(strings.Fields(tagRe.ReplaceAllString(s, "")), " ")
}

// cleanReviews cleans bodies, drops the ones shorter than 10 characters, and caps at limit.
func cleanReviews(in []domain.RawReview, limit int) []domain.RawReview {
	out := make([]domain.RawReview, 0, len(in))
	for _, r := range in {
		body, _ := r["body"].(string)
		text := stripHTML(body)
		if utf8.RuneCountInString(text) < minReviewChars {
			continue
		}
		r["body"] = text
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isJudgeMe(app string) bool {
	switch strings.ToLower(strings.TrimSpace(app)) {
	case "judge_me", "judge.me", "judgeme":
		return true
	}
	return false
}

var _ domain.ReviewSource = (*Source)(nil)
