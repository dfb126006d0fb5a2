// Package shopify fetches product reviews from a Shopify store: through the Judge.me API when the
// store uses it, otherwise from review metafields on the store's products.
package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reviewlens/internal/adapters/restclient"
)

const (
	DefaultAPIVersion  = "2024-01"
	DefaultJudgeMeBase = "https://judge.me/api/v1"

	maxProductsPage = 250
)

type Config struct {
	APIVersion string
	// AdminBaseURL replaces https://{store}/admin/api/{version} when set (tests, proxies).
	AdminBaseURL string
	JudgeMeBase  string
	RPS          int
	Workers      int
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// AdminClient talks to one store's Admin REST API.
type AdminClient struct {
	rc    *restclient.Client
	base  string
	token string
}

func newAdminClient(rc *restclient.Client, cfg Config, store, token string) *AdminClient {
	base := cfg.AdminBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s/admin/api/%s", NormalizeDomain(store), cfg.APIVersion)
	}
	return &AdminClient{rc: rc, base: strings.TrimRight(base, "/"), token: token}
}

func (c *AdminClient) header() http.Header {
	return http.Header{
		"X-Shopify-Access-Token": {c.token},
		"Content-Type":           {"application/json"},
	}
}

// VerifyConnection reads /shop.json; any failure means the store or token is unusable.
func (c *AdminClient) VerifyConnection(ctx context.Context) error {
	var out struct {
		Shop map[string]any `json:"shop"`
	}
	if err := c.rc.GetJSON(ctx, "shop.json", c.base+"/shop.json", c.header(), &out); err != nil {
		return err
	}
	if out.Shop == nil {
		return fmt.Errorf("shopify shop.json: response has no shop object")
	}
	return nil
}

type Product struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func (c *AdminClient) Products(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 || limit > maxProductsPage {
		limit = maxProductsPage
	}
	q := url.Values{"limit": {fmt.Sprint(limit)}, "fields": {"id,title"}}
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.rc.GetJSON(ctx, "products.json", c.base+"/products.json?"+q.Encode(), c.header(), &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     any    `json:"value"`
}

func (c *AdminClient) Metafields(ctx context.Context, productID int64) ([]Metafield, error) {
	var out struct {
		Metafields []Metafield `json:"metafields"`
	}
	u := fmt.Sprintf("%s/products/%d/metafields.json", c.base, productID)
	if err := c.rc.GetJSON(ctx, "metafields.json", u, c.header(), &out); err != nil {
		return nil, err
	}
	return out.Metafields, nil
}

// NormalizeDomain strips the scheme and trailing slash and appends .myshopify.com when missing.
func NormalizeDomain(d string) string {
	d = strings.TrimSpace(d)
	d = strings.TrimPrefix(strings.TrimPrefix(d, "https://"), "http://")
	d = strings.TrimRight(d, "/")
	if !strings.Contains(d, ".myshopify.com") {
		d += ".myshopify.com"
	}
	return d
}
