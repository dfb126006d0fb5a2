package analytics

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"reviewlens/internal/domain"
)

var (
	sevenDayPhrases  = []string{"last 7 days", "past 7 days", "7 days", "last week", "past week"}
	prevMonthPhrases = []string{"previous month", "last month", "prior month"}
	thirtyDayPhrases = []string{"last 30 days", "past 30 days", "30 days"}
	thisMonthPhrases = []string{"this month", "current month"}
)

const yearSep = `(?:to|until|through|till|থেকে\s+আজ\s+পর্যন্ত|aj\s+porjonto|পর্যন্ত|poro?jonto|theke|থেকে|-|–|—)`

var (
	yearRangeRe = regexp.MustCompile(`(?i)(?:from\s+)?(\d{4})\s*` + yearSep + `\s*(\d{4})`)
	yearFromRe  = regexp.MustCompile(`(?i)(\d{4})\s*(?:theke\b|থেকে)`)
	januaryRe   = regexp.MustCompile(`(?i)(?:first|january|jan|1st|জানুয়ারি)`)

	monthDayRangeRe = regexp.MustCompile(`([\p{L}\p{N}_]+\s+\d+)\s*[-–—]\s*([\p{L}\p{N}_]+\s+\d+)`)
	isoRangeRe      = regexp.MustCompile(`(?i)(\d{4}-\d{2}-\d{2})\s*(?:[-–—]|to|until|through)\s*(\d{4}-\d{2}-\d{2})`)
	slashRangeRe    = regexp.MustCompile(`(?i)(\d{1,2}/\d{1,2}/\d{4})\s*(?:[-–—]|to|until|through)\s*(\d{1,2}/\d{1,2}/\d{4})`)
)

// dateparse knows "Sep" and "September" but not the four-letter form.
var septRe = regexp.MustCompile(`(?i)^sept\.?\s`)

// Resolver turns free-form questions into calendar date ranges relative to its clock.
type Resolver struct {
	now func() time.Time
}

func NewResolver(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now}
}

// Resolve returns the range the question asks about, or false when it names none.
// Patterns are tried in a fixed order and a pattern that matches but fails to parse
// hands over to the next one.
func (r *Resolver) Resolve(question string) (domain.DateRange, bool) {
	q := asciiDigits(question)
	ql := strings.ToLower(q)
	today := domain.CalendarDate(r.now())

	switch {
	case ContainsAnyPhrase(ql, sevenDayPhrases):
		return domain.DateRange{Start: today.AddDate(0, 0, -7), End: today}, true
	case ContainsAnyPhrase(ql, prevMonthPhrases):
		firstThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		lastPrev := firstThis.AddDate(0, 0, -1)
		return domain.DateRange{Start: firstThis.AddDate(0, -1, 0), End: lastPrev}, true
	case ContainsAnyPhrase(ql, thirtyDayPhrases):
		return domain.DateRange{Start: today.AddDate(0, 0, -30), End: today}, true
	case ContainsAnyPhrase(ql, thisMonthPhrases):
		return domain.DateRange{Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), End: today}, true
	}

	if m := yearRangeRe.FindStringSubmatch(q); m != nil {
		from, okFrom := parseYear(m[1])
		to, okTo := parseYear(m[2])
		if okFrom && okTo {
			end := time.Date(to, time.December, 31, 0, 0, 0, 0, time.UTC)
			if januaryRe.MatchString(q) {
				end = time.Date(to, time.January, 31, 0, 0, 0, 0, time.UTC)
			}
			return domain.DateRange{Start: time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC), End: end}, true
		}
	}

	if m := yearFromRe.FindStringSubmatch(q); m != nil {
		if from, ok := parseYear(m[1]); ok {
			return domain.DateRange{Start: time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC), End: today}, true
		}
	}

	if m := monthDayRangeRe.FindStringSubmatch(q); m != nil {
		start, okS := parseMonthDay(m[1], today.Year())
		end, okE := parseMonthDay(m[2], today.Year())
		if okS && okE {
			if start.After(end) {
				start = start.AddDate(-1, 0, 0)
			}
			return domain.DateRange{Start: start, End: end}, true
		}
	}
	if dr, ok := matchLayoutRange(isoRangeRe, q); ok {
		return dr, true
	}
	if dr, ok := matchLayoutRange(slashRangeRe, q); ok {
		return dr, true
	}
	return domain.DateRange{}, false
}

func parseYear(s string) (int, bool) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 {
		return 0, false
	}
	return y, true
}

// parseMonthDay reads "Dec 10" / "december 10" in the given year.
func parseMonthDay(s string, year int) (time.Time, bool) {
	f := strings.Fields(s)
	if len(f) != 2 || !isLetters(f[0]) {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(f[1])
	if err != nil {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(septRe.ReplaceAllString(f[0]+" "+f[1], "Sep "), time.UTC)
	// year 0 means no year was given; unknown words parse literally as Jan 1
	if err != nil || t.Year() != 0 || t.Day() != day || !namesMonth(f[0], t.Month()) {
		return time.Time{}, false
	}
	out := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if out.Month() != t.Month() {
		return time.Time{}, false
	}
	return out, true
}

func namesMonth(word string, m time.Month) bool {
	w := strings.ToLower(strings.TrimSuffix(word, "."))
	return len(w) >= 3 && strings.HasPrefix(strings.ToLower(m.String()), w[:3])
}

func isLetters(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func matchLayoutRange(re *regexp.Regexp, q string) (domain.DateRange, bool) {
	m := re.FindStringSubmatch(q)
	if m == nil {
		return domain.DateRange{}, false
	}
	start, err := dateparse.ParseIn(m[1], time.UTC)
	if err != nil {
		return domain.DateRange{}, false
	}
	end, err := dateparse.ParseIn(m[2], time.UTC)
	if err != nil {
		return domain.DateRange{}, false
	}
	return domain.NewDateRange(start, end), true
}
