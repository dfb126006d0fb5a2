package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"reviewlens/internal/domain"
)

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"id":            {"id", "review_id", "reviewId"},
	"body":          {"body", "text", "review", "content", "comment", "review_text"},
	"title":         {"title", "review_title", "headline"},
	"rating":        {"rating", "score", "stars", "rating.value"},
	"sentiment":     {"sentiment_label", "sentiment"},
	"confidence":    {"confidence"},
	"created_at":    {"created_at", "createdAt", "date", "published_at", "review_date"},
	"product_id":    {"product_id", "product_external_id", "productId", "product.id"},
	"product_title": {"product_title", "product_name", "product.title"},
	"reviewer":      {"reviewer_name", "reviewer.name", "author", "name"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	if v, ok := m[path]; ok {
		return v
	}
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupText returns the value at path as text; numbers are formatted, everything else is "".
func lookupText(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	}
	return ""
}

// firstNonEmptyAlias: first non-empty text for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupText(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return &f
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/********** reviews mapper **********/

// MapReviews builds the typed view of raw reviews. Malformed fields are left nil, never rejected.
func MapReviews(in []domain.RawReview) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		if r == nil {
			out = append(out, domain.Review{})
			continue
		}
		rv := domain.Review{
			Body:         firstNonEmptyAlias(r, reviewAliases, "body"),
			Title:        firstNonEmptyAlias(r, reviewAliases, "title"),
			Rating:       getFloatFlexible(r, reviewAliases["rating"]...),
			Sentiment:    firstNonEmptyAlias(r, reviewAliases, "sentiment"),
			Confidence:   getFloatFlexible(r, reviewAliases["confidence"]...),
			CreatedAt:    firstNonEmptyAlias(r, reviewAliases, "created_at"),
			ProductID:    firstNonEmptyAlias(r, reviewAliases, "product_id"),
			ProductTitle: firstNonEmptyAlias(r, reviewAliases, "product_title"),
			ReviewerName: firstNonEmptyAlias(r, reviewAliases, "reviewer"),
		}

		// ID → prefer explicit; else synthesize stable hash.
		if s := firstNonEmptyAlias(r, reviewAliases, "id"); s != nil {
			rv.ID = s
		} else {
			rating := ""
			if rv.Rating != nil {
				rating = strconv.FormatFloat(*rv.Rating, 'f', 3, 64)
			}
			sig := strings.Join([]string{deref(rv.Body), deref(rv.CreatedAt), deref(rv.ReviewerName), deref(rv.ProductID), rating}, "|")
			sum := sha1.Sum([]byte(sig))
			id := hex.EncodeToString(sum[:])
			rv.ID = &id
		}
		out = append(out, rv)
	}
	return out
}
