package fields

import (
	"strings"

	"github.com/sells-group/coltype/internal/model"
	"github.com/sells-group/coltype/internal/resource"
)

const (
	nameTrim  = " ,.-"
	legalTrim = " ,-"
)

// ParseCompanyName splits raw at the first legal suffix found, trying longer
// suffixes first. Name loses surrounding spaces, commas, periods, and hyphens;
// Legal keeps a trailing abbreviation period ("Inc.") but loses other
// surrounding punctuation. Without a match Name is the trimmed input.
func ParseCompanyName(raw string, res *resource.Set) model.ParsedCompany {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.ParsedCompany{}
	}

	_, start, ok := res.MatchSuffix(s)
	if !ok {
		return model.ParsedCompany{Name: s}
	}

	return model.ParsedCompany{
		Name:  strings.Trim(s[:start], nameTrim),
		Legal: trimLegal(s[start:]),
	}
}

// trimLegal keeps at most one trailing period, so "Ltd.." and "Ltd. ." both
// become "Ltd.".
func trimLegal(s string) string {
	s = strings.TrimLeft(strings.Trim(s, legalTrim), ".")
	if strings.HasSuffix(s, ".") {
		s = strings.TrimRight(s, legalTrim+".") + "."
	}
	return s
}
