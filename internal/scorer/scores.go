package scorer

import (
	"strings"

	"github.com/sells-group/coltype/internal/resource"
)

// fraction returns the share of values satisfying pred. Empty input scores 0.
func fraction(values []string, pred func(string) bool) float64 {
	hits := 0
	for _, v := range values {
		if pred(v) {
			hits++
		}
	}
	return float64(hits) / float64(max(len(values), 1))
}

// ScorePhone returns the share of values that look like phone numbers, using
// the default 7-15 digit range.
func ScorePhone(values []string) float64 {
	th := DefaultThresholds()
	return ScorePhoneRange(values, th.PhoneMinDigits, th.PhoneMaxDigits)
}

// ScorePhoneRange is ScorePhone with an explicit digit range.
func ScorePhoneRange(values []string, minDigits, maxDigits int) float64 {
	return fraction(values, func(v string) bool {
		return LooksLikePhone(v, minDigits, maxDigits)
	})
}

// ScoreDate returns the share of values that parse as dates.
func ScoreDate(values []string) float64 {
	return fraction(values, LooksLikeDate)
}

// ScoreCountry returns the share of non-empty values that are known country
// names. Empty values are left out of the denominator entirely, unlike the
// other scorers. An empty country set always scores 0.
func ScoreCountry(values []string, res *resource.Set) float64 {
	if res.CountryCount() == 0 {
		return 0
	}

	hits, total := 0, 0
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		total++
		if res.HasCountry(v) {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// ScoreCompany returns the share of values that look like company names.
func ScoreCompany(values []string, res *resource.Set) float64 {
	return fraction(values, func(v string) bool {
		return LooksLikeCompany(v, res)
	})
}
