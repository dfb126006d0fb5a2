package analytics_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewlens/internal/analytics"
	"reviewlens/internal/domain"
)

func texts(rs []domain.Review) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Text())
	}
	return out
}

func TestQueryTerms(t *testing.T) {
	assert.Equal(t, []string{"why", "battery", "dying", "fast"}, analytics.QueryTerms("Why is my battery dying so fast?!"))
	assert.Empty(t, analytics.QueryTerms("কেন ব্যাটারি?"))
}

func TestRetrieve_ScoresBodyAndTitle(t *testing.T) {
	in := []domain.Review{
		{Body: ptr("nice colours")},
		{Body: ptr("battery drains fast"), ProductTitle: ptr("Battery Pack")},
		{Body: ptr("battery ok")},
		{Body: ptr("meh"), ProductTitle: ptr("battery case")},
	}
	got := analytics.Retrieve("battery drains", in, 3)
	assert.Equal(t, []string{"battery drains fast", "battery ok", "meh"}, texts(got))
}

func TestRetrieve_PadsWithUnscoredInOrder(t *testing.T) {
	var in []domain.Review
	for _, s := range []string{"alpha", "bravo", "shipping late", "charlie", "delta"} {
		in = append(in, domain.Review{Body: ptr(s)})
	}
	got := analytics.Retrieve("was shipping slow", in, 8)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"shipping late", "alpha", "bravo", "charlie", "delta"}, texts(got))

	got = analytics.Retrieve("was shipping slow", in, 3)
	assert.Equal(t, []string{"shipping late", "alpha", "bravo"}, texts(got))
}

func TestRetrieve_NoTermsTakesPrefix(t *testing.T) {
	in := []domain.Review{{Body: ptr("a")}, {Body: ptr("b")}, {Body: ptr("c")}}
	assert.Equal(t, []string{"a", "b"}, texts(analytics.Retrieve("?", in, 2)))
	assert.Nil(t, analytics.Retrieve("battery", nil, 8))
}

func TestRetrieve_DuplicateReviewsAreKept(t *testing.T) {
	in := []domain.Review{{Body: ptr("same")}, {Body: ptr("same")}}
	assert.Len(t, analytics.Retrieve("zzz", in, 8), 2)
}

var rawEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

func TestBuildQuotes_MaskTruncateDedupe(t *testing.T) {
	long := "The battery lasted barely two hours and then the device shut down without any warning at all"
	in := []domain.Review{
		{Body: ptr(long)},
		{Body: ptr("contact me at john.doe@example.com about the battery")},
		{Body: ptr("  battery   fine  ")},
		{Body: ptr("battery fine")},
		{Body: ptr("   ")},
	}

	quotes := analytics.BuildQuotes("battery", in, 5)
	require.Len(t, quotes, 3)
	assert.Equal(t, "The battery lasted barely two hours and then the device shut down…", quotes[0])
	assert.Equal(t, "contact me at j***@example.com about the battery", quotes[1])
	assert.Equal(t, "battery fine", quotes[2])

	for _, q := range quotes {
		assert.LessOrEqual(t, len(strings.Fields(q)), analytics.QuoteMaxWords)
		assert.False(t, rawEmail.MatchString(q), q)
	}
}

func TestQuote_UnicodeWhitespace(t *testing.T) {
	for name, sep := range map[string]string{"nbsp": "\u00a0", "em space": "\u2003", "vertical tab": "\v"} {
		t.Run(name, func(t *testing.T) {
			q := analytics.Quote(strings.Repeat("word"+sep, 20)+"end", analytics.QuoteMaxWords)
			assert.Len(t, strings.Fields(q), analytics.QuoteMaxWords)
			assert.Equal(t, strings.Repeat("word ", 11)+"word…", q)
		})
	}

	assert.Equal(t, "short and sweet", analytics.Quote("short\u00a0and\u2003 sweet", analytics.QuoteMaxWords))
}

func TestBuildQuotes_DefaultsToThree(t *testing.T) {
	var in []domain.Review
	for _, s := range []string{"one", "two", "three", "four"} {
		in = append(in, domain.Review{Body: ptr(s)})
	}
	assert.Len(t, analytics.BuildQuotes("", in, 0), 3)
}

func TestMaskEmails(t *testing.T) {
	assert.Equal(t, "mail a***@b.co or z***@x.org", analytics.MaskEmails("mail alice@b.co or z@x.org"))
	assert.Equal(t, "no email here", analytics.MaskEmails("no email here"))
}
