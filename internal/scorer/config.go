// Package scorer implements the rule-based column scorers, the single-column
// classification policy, and the best-column selector used for parsing.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/coltype/internal/config"
)

// Thresholds controls the classification policy and the phone predicate.
type Thresholds struct {
	PhoneOverride   float64
	DateOverride    float64
	CountryOverride float64
	MinScore        float64
	PhoneMinDigits  int
	PhoneMaxDigits  int
}

// DefaultThresholds returns the standard policy thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PhoneOverride:   0.8,
		DateOverride:    0.8,
		CountryOverride: 0.8,
		MinScore:        0.3,
		PhoneMinDigits:  7,
		PhoneMaxDigits:  15,
	}
}

// ThresholdsFromConfig maps the classify section of the app config onto
// Thresholds. Zero digit bounds fall back to the defaults.
func ThresholdsFromConfig(c config.ClassifyConfig) Thresholds {
	d := DefaultThresholds()
	th := Thresholds{
		PhoneOverride:   c.PhoneOverride,
		DateOverride:    c.DateOverride,
		CountryOverride: c.CountryOverride,
		MinScore:        c.MinScore,
		PhoneMinDigits:  c.PhoneMinDigits,
		PhoneMaxDigits:  c.PhoneMaxDigits,
	}
	if th.PhoneMinDigits == 0 {
		th.PhoneMinDigits = d.PhoneMinDigits
	}
	if th.PhoneMaxDigits == 0 {
		th.PhoneMaxDigits = d.PhoneMaxDigits
	}
	return th
}

// ValidateThresholds checks that Thresholds is internally consistent.
func ValidateThresholds(th Thresholds) error {
	var errs []string

	scores := []struct {
		name string
		v    float64
	}{
		{"phone_override", th.PhoneOverride},
		{"date_override", th.DateOverride},
		{"country_override", th.CountryOverride},
		{"min_score", th.MinScore},
	}
	for _, s := range scores {
		if s.v < 0 || s.v > 1 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 1, got %.2f", s.name, s.v))
		}
	}

	if th.PhoneMinDigits < 1 {
		errs = append(errs, "phone_min_digits must be >= 1")
	}
	if th.PhoneMaxDigits < th.PhoneMinDigits {
		errs = append(errs, "phone_max_digits must be >= phone_min_digits")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: thresholds validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
