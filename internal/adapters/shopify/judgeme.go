package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"reviewlens/internal/adapters/restclient"
	"reviewlens/internal/domain"
)

const judgeMePerPage = 100

// JudgeMeClient pages through the Judge.me reviews API for one shop.
type JudgeMeClient struct {
	rc    *restclient.Client
	base  string
	shop  string
	token string
}

type judgeMeReview struct {
	ID                any     `json:"id"`
	Title             string  `json:"title"`
	Body              string  `json:"body"`
	Rating            float64 `json:"rating"`
	CreatedAt         string  `json:"created_at"`
	ProductExternalID any     `json:"product_external_id"`
	ProductTitle      string  `json:"product_title"`
	Reviewer          struct {
		Name string `json:"name"`
	} `json:"reviewer"`
}

func (c *JudgeMeClient) page(ctx context.Context, n int) ([]judgeMeReview, error) {
	q := url.Values{
		"shop_domain": {c.shop},
		"per_page":    {fmt.Sprint(judgeMePerPage)},
		"page":        {fmt.Sprint(n)},
	}
	hdr := http.Header{"Authorization": {"Bearer " + c.token}}
	var out struct {
		Reviews []judgeMeReview `json:"reviews"`
	}
	if err := c.rc.GetJSON(ctx, "reviews", c.base+"/reviews?"+q.Encode(), hdr, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

// Reviews reads pages until a short page or limit reviews with a body.
func (c *JudgeMeClient) Reviews(ctx context.Context, limit int) ([]domain.RawReview, error) {
	var out []domain.RawReview
	for n := 1; len(out) < limit; n++ {
		batch, err := c.page(ctx, n)
		if err != nil {
			return nil, err
		}
		for _, r := range batch {
			body := strings.TrimSpace(r.Body)
			if body == "" {
				continue
			}
			raw := domain.RawReview{"body": body, "created_at": r.CreatedAt}
			if r.Rating > 0 {
				raw["rating"] = r.Rating
			}
			setIf(raw, "id", r.ID)
			setIf(raw, "product_id", r.ProductExternalID)
			setIf(raw, "title", r.Title)
			setIf(raw, "product_title", r.ProductTitle)
			setIf(raw, "reviewer_name", r.Reviewer.Name)
			out = append(out, raw)
		}
		if len(batch) < judgeMePerPage {
			break
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func setIf(r domain.RawReview, k string, v any) {
	switch x := v.(type) {
	case nil:
		return
	case string:
		if x == "" {
			return
		}
	}
	r[k] = v
}
