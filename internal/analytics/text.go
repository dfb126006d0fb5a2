package analytics

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ContainsPhrase reports whether phrase occurs in s with no letter or digit touching either end.
// Both arguments are expected in lower case.
func ContainsPhrase(s, phrase string) bool {
	if phrase == "" {
		return false
	}
	for from := 0; from <= len(s)-len(phrase); {
		i := strings.Index(s[from:], phrase)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(phrase)
		if !wordRuneBefore(s, i) && !wordRuneAfter(s, end) {
			return true
		}
		from = i + 1
	}
	return false
}

// ContainsAnyPhrase is ContainsPhrase over a list.
func ContainsAnyPhrase(s string, phrases []string) bool {
	for _, p := range phrases {
		if ContainsPhrase(s, p) {
			return true
		}
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordRuneAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// asciiDigits rewrites Bengali digits to ASCII so year patterns match them.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '০' && r <= '৯' {
			return '0' + (r - '০')
		}
		return r
	}, s)
}
