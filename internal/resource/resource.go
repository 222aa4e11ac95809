// Package resource loads the country-name and legal-suffix lookup lists used
// by the column scorers and the company-name parser.
package resource

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Paths locates the resource files. Empty paths are treated as absent.
type Paths struct {
	Countries string
	Legal     string
}

// Set is an immutable collection of lookup structures. It is safe for
// concurrent use once built.
type Set struct {
	countries map[string]struct{}
	suffixes  []string
	matchers  []*regexp.Regexp
}

// NewSet builds a Set from raw country names and legal suffixes. Inputs are
// copied, normalized to lowercase, and suffixes are ordered longest first.
func NewSet(countries, suffixes []string) *Set {
	s := &Set{countries: make(map[string]struct{}, len(countries))}
	for _, c := range countries {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			s.countries[c] = struct{}{}
		}
	}

	for _, suf := range suffixes {
		suf = strings.ToLower(strings.TrimSpace(suf))
		if suf != "" {
			s.suffixes = append(s.suffixes, suf)
		}
	}
	SortLongestFirst(s.suffixes)

	s.matchers = make([]*regexp.Regexp, len(s.suffixes))
	for i, suf := range s.suffixes {
		s.matchers[i] = CompileWordMatcher(suf)
	}
	return s
}

// Empty returns a Set with no countries and no suffixes.
func Empty() *Set {
	return NewSet(nil, nil)
}

// Load reads both resource files and builds a Set. A missing file yields an
// empty part; any other read error is returned.
func Load(p Paths) (*Set, error) {
	countries, err := readLines(p.Countries, false)
	if err != nil {
		return nil, eris.Wrap(err, "resource: load countries")
	}
	suffixes, err := readLines(p.Legal, true)
	if err != nil {
		return nil, eris.Wrap(err, "resource: load legal suffixes")
	}

	s := NewSet(countries, suffixes)
	zap.L().Debug("resources loaded",
		zap.String("countries_path", p.Countries),
		zap.Int("countries", len(s.countries)),
		zap.String("legal_path", p.Legal),
		zap.Int("suffixes", len(s.suffixes)),
	)
	return s, nil
}

// LoadCountries returns the lowercase set of country names in path.
func LoadCountries(path string) (map[string]struct{}, error) {
	lines, err := readLines(path, false)
	if err != nil {
		return nil, eris.Wrap(err, "resource: load countries")
	}
	out := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		out[l] = struct{}{}
	}
	return out, nil
}

// LoadLegalSuffixes returns the lowercase legal suffixes in path, longest
// first. Lines starting with '#' are comments.
func LoadLegalSuffixes(path string) ([]string, error) {
	lines, err := readLines(path, true)
	if err != nil {
		return nil, eris.Wrap(err, "resource: load legal suffixes")
	}
	SortLongestFirst(lines)
	return lines, nil
}

// SortLongestFirst orders suffixes by byte length, descending. Equal lengths
// keep their input order.
func SortLongestFirst(suffixes []string) {
	slices.SortStableFunc(suffixes, func(a, b string) int {
		return len(b) - len(a)
	})
}

// CompileWordMatcher returns a case-insensitive matcher for phrase where each
// edge that is a word character must sit on a word boundary.
func CompileWordMatcher(phrase string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(phrase)
	if r, _ := utf8.DecodeRuneInString(phrase); isWordRune(r) {
		pattern = `\b` + pattern
	}
	if r, _ := utf8.DecodeLastRuneInString(phrase); isWordRune(r) {
		pattern += `\b`
	}
	return regexp.MustCompile(`(?i)` + pattern)
}

func isWordRune(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

// HasCountry reports whether name (already normalized) is a known country.
// A nil Set knows no countries.
func (s *Set) HasCountry(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.countries[name]
	return ok
}

// CountryCount returns the number of known countries.
func (s *Set) CountryCount() int {
	if s == nil {
		return 0
	}
	return len(s.countries)
}

// Suffixes returns a copy of the ordered suffix list.
func (s *Set) Suffixes() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.suffixes)
}

// MatchSuffix finds the first suffix, in longest-first order, with a
// whole-word occurrence in v. It returns the suffix and the byte offset of the
// match start in v, or ok=false.
func (s *Set) MatchSuffix(v string) (suffix string, start int, ok bool) {
	if s == nil {
		return "", 0, false
	}
	for i, re := range s.matchers {
		if loc := re.FindStringIndex(v); loc != nil {
			return s.suffixes[i], loc[0], true
		}
	}
	return "", 0, false
}

func readLines(path string, skipComments bool) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Debug("resource file not found, using empty list", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return scanLines(f, skipComments)
}

func scanLines(r io.Reader, skipComments bool) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if line == "" {
			continue
		}
		if skipComments && strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, eris.Wrap(sc.Err(), "scan lines")
}
