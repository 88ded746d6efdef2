package dashboard

import (
	"math"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MatchThreshold is the score a feature name must exceed to be joined to a
// dataset country it does not equal.
const MatchThreshold = 80

// NameMatcher resolves dataset country names against map feature names that
// may be spelled differently ("Viet Nam", "United States of America").
type NameMatcher struct {
	names []string
	norm  []string
}

// NewNameMatcher indexes the candidate names.
func NewNameMatcher(names []string) *NameMatcher {
	m := &NameMatcher{names: slices.Clone(names), norm: make([]string, len(names))}
	for i, n := range names {
		m.norm[i] = normalizeName(n)
	}
	return m
}

// Match returns the best scoring candidate for name, its score (0-100) and
// whether the score exceeds MatchThreshold. Ties keep the earlier candidate.
func (m *NameMatcher) Match(name string) (string, int, bool) {
	q := normalizeName(name)
	best, bestScore := -1, -1
	for i, cand := range m.norm {
		if s := similarity(q, cand); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return "", 0, false
	}
	return m.names[best], bestScore, bestScore > MatchThreshold
}

func normalizeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', '(', ')', '\'', '-':
			return ' '
		}
		return r
	}, strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// similarity is a weighted best of the plain ratio, the best substring ratio
// and the ratio of word-sorted names, each on a 0-100 scale.
func similarity(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	best := ratio(a, b)
	best = max(best, 0.95*ratio(sortWords(a), sortWords(b)))

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	lenRatio := float64(len(rb)) / float64(len(ra))
	if lenRatio >= 1.5 {
		scale := 0.9
		if lenRatio >= 8 {
			scale = 0.6
		}
		best = max(best, scale*partialRatio(ra, rb))
	}
	return int(math.Round(best))
}

func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	return 100 * (1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest))
}

// partialRatio slides the shorter name over the longer one and keeps the best
// window ratio.
func partialRatio(short, long []rune) float64 {
	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		best = max(best, ratio(s, string(long[i:i+len(short)])))
		if best == 100 {
			break
		}
	}
	return best
}

func sortWords(s string) string {
	words := strings.Fields(s)
	slices.Sort(words)
	return strings.Join(words, " ")
}
