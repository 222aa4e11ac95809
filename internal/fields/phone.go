// Package fields splits values of a classified column into structured
// sub-fields: phone numbers into dial-code country and subscriber number,
// company names into base name and legal suffix.
package fields

import (
	"strings"

	"github.com/sells-group/coltype/internal/model"
)

// DialCodes maps a numeric dial-code prefix (without '+') to a country label.
type DialCodes map[string]string

// DefaultDialCodes returns the built-in dial-code table.
func DefaultDialCodes() DialCodes {
	return DialCodes{
		"1":  "US",
		"44": "UK",
		"91": "India",
	}
}

// digitsOnly returns the ASCII digits of s in order.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// ParsePhoneNumber splits raw into a country and subscriber digits. A dial
// code is only looked for when raw starts with '+'; codes of length 3, 2, and
// 1 are tried in that order. Without a match Country is empty and Number holds
// every digit.
func ParsePhoneNumber(raw string, codes DialCodes) model.ParsedPhone {
	s := strings.TrimSpace(raw)
	digits := digitsOnly(s)
	if digits == "" {
		return model.ParsedPhone{}
	}

	if strings.HasPrefix(s, "+") {
		for n := 3; n >= 1; n-- {
			if len(digits) < n {
				continue
			}
			if country, ok := codes[digits[:n]]; ok {
				return model.ParsedPhone{Country: country, Number: digits[n:]}
			}
		}
	}
	return model.ParsedPhone{Number: digits}
}
