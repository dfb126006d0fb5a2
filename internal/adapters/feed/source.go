// Package feed reads reviews from RSS and Atom feeds.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"reviewlens/internal/adapters/restclient"
	"reviewlens/internal/domain"
)

type Config struct {
	RPS        int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Source implements domain.ReviewSource over a feed URL. Each item is one review.
type Source struct {
	rc *restclient.Client
}

func New(cfg Config) *Source {
	return &Source{rc: restclient.New("feed", cfg.RPS, cfg.Timeout, cfg.HTTPClient)}
}

func (s *Source) FetchReviews(ctx context.Context, c domain.FetchCriteria) ([]domain.RawReview, error) {
	hdr := http.Header{"Accept": {"application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8"}}
	body, err := s.rc.Get(ctx, "feed", c.FeedURL, hdr)
	if err != nil {
		return nil, err
	}
	f, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("feed %s: parse: %w", c.FeedURL, err)
	}

	out := make([]domain.RawReview, 0, len(f.Items))
	for _, it := range f.Items {
		if c.Limit > 0 && len(out) >= c.Limit {
			break
		}
		text := itemText(it)
		if text == "" {
			continue
		}
		r := domain.RawReview{"body": text}
		if id := strings.TrimSpace(it.GUID); id != "" {
			r["id"] = id
		} else if l := strings.TrimSpace(it.Link); l != "" {
			r["id"] = l
		}
		if t := strings.TrimSpace(it.Title); t != "" {
			r["product_title"] = t
		}
		if a := author(it); a != "" {
			r["reviewer_name"] = a
		}
		switch {
		case it.PublishedParsed != nil:
			r["created_at"] = it.PublishedParsed.UTC().Format(time.RFC3339)
		case it.UpdatedParsed != nil:
			r["created_at"] = it.UpdatedParsed.UTC().Format(time.RFC3339)
		case it.Published != "":
			r["created_at"] = it.Published
		}
		if rating, ok := itemRating(it); ok {
			r["rating"] = rating
		}
		out = append(out, r)
	}
	return out, nil
}

// itemText prefers the full content over the description.
func itemText(it *gofeed.Item) string {
	for _, s := range []string{it.Content, it.Description} {
		if t := strings.TrimSpace(s); t != "" {
			return t
		}
	}
	return ""
}

func author(it *gofeed.Item) string {
	if it.Author != nil && strings.TrimSpace(it.Author.Name) != "" {
		return strings.TrimSpace(it.Author.Name)
	}
	for _, p := range it.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}
	return ""
}

// itemRating looks for a <rating> element in any extension namespace.
func itemRating(it *gofeed.Item) (float64, bool) {
	for _, byName := range it.Extensions {
		for _, ext := range byName["rating"] {
			v := strings.TrimSpace(ext.Value)
			if v == "" {
				v = ext.Attrs["value"]
			}
			if f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

var _ domain.ReviewSource = (*Source)(nil)
