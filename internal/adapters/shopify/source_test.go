package shopify_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewlens/internal/adapters/shopify"
	"reviewlens/internal/domain"
)

type store struct {
	t            *testing.T
	token        string
	products     []map[string]any
	metafields   map[string][]map[string]any
	judgeMe      []map[string]any
	judgeMeCode  int
	judgeMePages int32
	metaCalls    int32
}

func (s *store) handler() http.Handler {
	mux := http.NewServeMux()
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Shopify-Access-Token") != s.token {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"errors":"[API] Invalid API key or access token"}`))
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("/admin/shop.json", auth(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"shop": map[string]any{"name": "Demo"}})
	}))
	mux.HandleFunc("/admin/products.json", auth(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(s.t, "250", r.URL.Query().Get("limit"))
		writeJSON(w, map[string]any{"products": s.products})
	}))
	mux.HandleFunc("/admin/products/{id}/metafields.json", auth(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.metaCalls, 1)
		fields, ok := s.metafields[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]any{"metafields": fields})
	}))
	mux.HandleFunc("/jm/reviews", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.judgeMePages, 1)
		if s.judgeMeCode != 0 {
			w.WriteHeader(s.judgeMeCode)
			return
		}
		assert.Equal(s.t, "Bearer jm-token", r.Header.Get("Authorization"))
		assert.Equal(s.t, "demo.myshopify.com", r.URL.Query().Get("shop_domain"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		start := (page - 1) * 100
		end := min(start+100, len(s.judgeMe))
		if start > len(s.judgeMe) {
			start = end
		}
		writeJSON(w, map[string]any{"reviews": s.judgeMe[start:end]})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newSource(t *testing.T, s *store) *shopify.Source {
	ts := httptest.NewServer(s.handler())
	t.Cleanup(ts.Close)
	return shopify.New(shopify.Config{
		AdminBaseURL: ts.URL + "/admin",
		JudgeMeBase:  ts.URL + "/jm",
		RPS:          1000,
		Workers:      1,
		Timeout:      2 * time.Second,
	})
}

func crit(limit int) domain.FetchCriteria {
	return domain.FetchCriteria{Source: "shopify", StoreDomain: "demo.myshopify.com", AccessToken: "tok", Limit: limit}
}

func TestFetchReviews_Metafields(t *testing.T) {
	s := &store{
		t:     t,
		token: "tok",
		products: []map[string]any{
			{"id": 1, "title": "Lamp"},
			{"id": 2, "title": "Chair"},
			{"id": 3, "title": "Gone"},
		},
		metafields: map[string][]map[string]any{
			"1": {
				{"namespace": "spr", "key": "reviews", "value": "<p>Bright   and <b>warm</b> light</p>"},
				{"namespace": "global", "key": "title_tag", "value": "Lamp for every room"},
				{"namespace": "reviews", "key": "rating", "value": map[string]any{"value": 4}},
			},
			"2": {
				{"namespace": "custom", "key": "customer_review", "value": "Wobbly legs after a month"},
				{"namespace": "yotpo", "key": "x", "value": "short"},
			},
		},
	}
	src := newSource(t, s)

	got, err := src.FetchReviews(context.Background(), crit(10))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bright and warm light", got[0]["body"])
	assert.Equal(t, "Lamp", got[0]["product_title"])
	assert.EqualValues(t, 1, got[0]["product_id"])
	assert.Equal(t, "Wobbly legs after a month", got[1]["body"])
	assert.EqualValues(t, 3, atomic.LoadInt32(&s.metaCalls))
}

func TestFetchReviews_MetafieldScanStopsAtLimit(t *testing.T) {
	s := &store{t: t, token: "tok", metafields: map[string][]map[string]any{}}
	for i := 1; i <= 20; i++ {
		s.products = append(s.products, map[string]any{"id": i, "title": fmt.Sprint("P", i)})
		s.metafields[fmt.Sprint(i)] = []map[string]any{{"namespace": "reviews", "key": "body", "value": "A perfectly fine product"}}
	}
	src := newSource(t, s)

	got, err := src.FetchReviews(context.Background(), crit(3))
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Less(t, atomic.LoadInt32(&s.metaCalls), int32(20))
}

func TestFetchReviews_JudgeMePaging(t *testing.T) {
	s := &store{t: t, token: "tok"}
	for i := 0; i < 150; i++ {
		s.judgeMe = append(s.judgeMe, map[string]any{
			"id": i, "body": fmt.Sprintf("Review number %d is here", i), "rating": 4,
			"created_at": "2026-01-02T10:00:00Z", "product_external_id": 77, "product_title": "Lamp",
			"reviewer": map[string]any{"name": "Ana"},
		})
	}
	s.judgeMe = append(s.judgeMe, map[string]any{"id": 999, "body": "   "})
	src := newSource(t, s)

	c := crit(500)
	c.ReviewApp, c.ReviewAppToken = "judge_me", "jm-token"
	got, err := src.FetchReviews(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, got, 150)
	assert.EqualValues(t, 2, atomic.LoadInt32(&s.judgeMePages))

	first := got[0]
	assert.Equal(t, "Review number 0 is here", first["body"])
	assert.Equal(t, 4.0, first["rating"])
	assert.Equal(t, "Ana", first["reviewer_name"])
	assert.Equal(t, "Lamp", first["product_title"])
	assert.Equal(t, "2026-01-02T10:00:00Z", first["created_at"])
}

func TestFetchReviews_JudgeMeLimit(t *testing.T) {
	s := &store{t: t, token: "tok"}
	for i := 0; i < 250; i++ {
		s.judgeMe = append(s.judgeMe, map[string]any{"id": i, "body": "Solid product overall"})
	}
	src := newSource(t, s)

	c := crit(120)
	c.ReviewApp, c.ReviewAppToken = "Judge.me", "jm-token"
	got, err := src.FetchReviews(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, got, 120)
	assert.EqualValues(t, 2, atomic.LoadInt32(&s.judgeMePages))
}

func TestFetchReviews_JudgeMeFailureFallsBackToMetafields(t *testing.T) {
	s := &store{
		t: t, token: "tok", judgeMeCode: http.StatusUnauthorized,
		products:   []map[string]any{{"id": 1, "title": "Lamp"}},
		metafields: map[string][]map[string]any{"1": {{"namespace": "judgeme", "key": "widget", "value": "Lovely lamp, fast delivery"}}},
	}
	src := newSource(t, s)

	c := crit(10)
	c.ReviewApp, c.ReviewAppToken = "judge_me", "bad"
	got, err := src.FetchReviews(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lovely lamp, fast delivery", got[0]["body"])
}

func TestFetchReviews_JudgeMeErrorSurfacesWhenNothingElseFound(t *testing.T) {
	s := &store{t: t, token: "tok", judgeMeCode: http.StatusUnauthorized}
	src := newSource(t, s)

	c := crit(10)
	c.ReviewApp, c.ReviewAppToken = "judge_me", "bad"
	_, err := src.FetchReviews(context.Background(), c)
	require.ErrorIs(t, err, domain.ErrSourceAuth)
	var se *domain.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "judge.me", se.Service)
}

func TestFetchReviews_BadToken(t *testing.T) {
	src := newSource(t, &store{t: t, token: "tok"})
	c := crit(10)
	c.AccessToken = "wrong"
	_, err := src.FetchReviews(context.Background(), c)
	require.ErrorIs(t, err, domain.ErrSourceAuth)
	var se *domain.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Contains(t, se.Message, "Invalid API key")
}

func TestFetchReviews_EmptyStoreIsNotAnError(t *testing.T) {
	src := newSource(t, &store{t: t, token: "tok"})
	got, err := src.FetchReviews(context.Background(), crit(10))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizeDomain(t *testing.T) {
	cases := map[string]string{
		"demo":                        "demo.myshopify.com",
		"https://demo.myshopify.com/": "demo.myshopify.com",
		" http://demo.myshopify.com ": "demo.myshopify.com",
		"demo.myshopify.com/admin":    "demo.myshopify.com/admin",
	}
	for in, want := range cases {
		assert.Equal(t, want, shopify.NormalizeDomain(in), in)
	}
}

func TestSupportedApps(t *testing.T) {
	apps := shopify.SupportedApps()
	require.Len(t, apps, 4)
	assert.Equal(t, "judge_me", apps[0].Key)
	assert.True(t, apps[0].HasFreeTier)
}
