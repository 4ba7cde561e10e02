// Package similarity scores how close two column names are.
//
// Names are normalized once before comparison: surrounding whitespace is
// trimmed and the result is Unicode case folded. The score is the classic
// Levenshtein distance over runes (insert, delete and substitute, unit cost).
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// Scorer computes edit distances between normalized names.
// The zero value is ready to use and safe for concurrent use.
type Scorer struct{}

// Default is the package-level scorer used by Distance and Normalize.
var Default Scorer

// Normalize applies the normalization policy to a name.
func (Scorer) Normalize(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Distance returns the edit distance between the normalized forms of a and b.
func (s Scorer) Distance(a, b string) int {
	return s.distance(s.Normalize(a), s.Normalize(b))
}

// Within reports the distance between a and b and whether it is at most max.
// Pairs whose rune lengths differ by more than max are rejected without
// computing the full distance; the returned distance is then -1.
func (s Scorer) Within(a, b string, max int) (int, bool) {
	na, nb := s.Normalize(a), s.Normalize(b)
	if max < 0 {
		return -1, false
	}
	diff := utf8.RuneCountInString(na) - utf8.RuneCountInString(nb)
	if diff < 0 {
		diff = -diff
	}
	if diff > max {
		return -1, false
	}
	d := s.distance(na, nb)
	return d, d <= max
}

// DistanceNormalized compares names that were already passed through Normalize.
func (s Scorer) DistanceNormalized(a, b string) int {
	return s.distance(a, b)
}

func (Scorer) distance(a, b string) int {
	if a == b {
		return 0
	}
	return levenshtein.ComputeDistance(a, b)
}

// Distance returns the edit distance between a and b using the default scorer.
func Distance(a, b string) int {
	return Default.Distance(a, b)
}

// Normalize applies the default normalization policy.
func Normalize(name string) string {
	return Default.Normalize(name)
}
