package analytics

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"reviewlens/internal/domain"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	domain.DateLayout,
}

// ParseTimestamp reads ISO-8601 and date-only strings, then anything dateparse understands.
// The zone is dropped: the result carries the wall-clock fields in UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return wallClock(t), true
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return wallClock(t), true
	}
	return time.Time{}, false
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// FilterByDate keeps reviews created inside r, end day inclusive up to 23:59:59.
// A nil range or an empty input comes back untouched; reviews without a readable timestamp are dropped.
func FilterByDate(reviews []domain.Review, r *domain.DateRange) []domain.Review {
	if r == nil || len(reviews) == 0 {
		return reviews
	}
	start := domain.CalendarDate(r.Start)
	end := r.LastInstant()

	out := make([]domain.Review, 0, len(reviews))
	for _, rv := range reviews {
		if rv.CreatedAt == nil {
			continue
		}
		ts, ok := ParseTimestamp(*rv.CreatedAt)
		if !ok {
			continue
		}
		if ts.Before(start) || ts.After(end) {
			continue
		}
		out = append(out, rv)
	}
	return out
}

// FilterByProduct keeps reviews of one product. An empty id disables the filter.
func FilterByProduct(reviews []domain.Review, productID string) []domain.Review {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return reviews
	}
	out := make([]domain.Review, 0, len(reviews))
	for _, rv := range reviews {
		if rv.ProductID != nil && strings.TrimSpace(*rv.ProductID) == productID {
			out = append(out, rv)
		}
	}
	return out
}
