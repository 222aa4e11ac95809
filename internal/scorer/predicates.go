package scorer

import (
	"strings"

	"github.com/araddon/dateparse"

	"github.com/sells-group/coltype/internal/resource"
)

// companyKeywords are substring fallbacks checked when no legal suffix matches.
var companyKeywords = []string{"ltd", "limited", "inc", "corp", "company", "co.", "gmbh", "bank", "plc"}

// CountDigits returns the number of ASCII digits in s.
func CountDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

// LooksLikePhone reports whether v carries between minDigits and maxDigits
// digits, inclusive, once every non-digit is ignored.
func LooksLikePhone(v string, minDigits, maxDigits int) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	n := CountDigits(v)
	return n >= minDigits && n <= maxDigits
}

// LooksLikeDate reports whether v parses as a date. Numeric dates are read
// day first, falling back to month first when the day-first month is out of
// range; the whole value must parse.
func LooksLikeDate(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	_, err := dateparse.ParseAny(v,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	return err == nil
}

// LooksLikeCountry reports whether v, trimmed and lowercased, is a known
// country name.
func LooksLikeCountry(v string, res *resource.Set) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v != "" && res.HasCountry(v)
}

// LooksLikeCompany reports whether v contains a whole-word legal suffix or one
// of the fallback company keywords.
func LooksLikeCompany(v string, res *resource.Set) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if _, _, ok := res.MatchSuffix(v); ok {
		return true
	}
	low := strings.ToLower(v)
	for _, k := range companyKeywords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}
