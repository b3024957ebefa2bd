// Package fuzzy ranks near-miss candidates for "did you mean" suggestions
// attached to unknown parameter and command warnings.
package fuzzy

import (
	"sort"
	"strings"
)

// Matcher scores candidates against a mistyped input within a maximum
// edit distance.
type Matcher struct {
	maxDistance int
	minInput    int
}

// NewMatcher returns a Matcher that rejects candidates further than
// maxDistance edits away. Inputs shorter than two characters never match;
// single-letter typos are as likely to be a different alias.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{maxDistance: maxDistance, minInput: 2}
}

// Match is one ranked candidate.
type Match struct {
	Value    string
	Distance int
	Score    float64
}

// Best returns the highest-ranked candidate, or "" when nothing is close
// enough.
func (m *Matcher) Best(input string, candidates []string) string {
	ranked := m.Rank(input, candidates)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Value
}

// Rank returns every candidate within range, best first.
func (m *Matcher) Rank(input string, candidates []string) []Match {
	if len(input) < m.minInput {
		return nil
	}
	lowered := strings.ToLower(input)

	var ranked []Match
	for _, cand := range candidates {
		lc := strings.ToLower(cand)
		if lc == lowered {
			// an exact hit is not a suggestion
			continue
		}
		d := m.distance(lowered, lc)
		if d > m.maxDistance {
			continue
		}
		ranked = append(ranked, Match{Value: cand, Distance: d, Score: m.score(lowered, lc, d)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked
}

// score blends normalized edit distance with a shared-prefix bonus and a
// length-similarity bonus. The weights sum to 1 so candidates stay
// distinguishable instead of saturating at the top.
func (m *Matcher) score(input, cand string, dist int) float64 {
	longest := max(len(input), len(cand))
	if longest == 0 {
		return 1
	}
	s := 0.6 * (1 - float64(dist)/float64(longest))

	shared := 0
	for shared < min(len(input), len(cand)) && input[shared] == cand[shared] {
		shared++
	}
	s += 0.25 * float64(shared) / float64(longest)

	diff := len(input) - len(cand)
	if diff < 0 {
		diff = -diff
	}
	s += 0.15 * (1 - float64(diff)/float64(longest))

	return s
}

// distance is a two-row Levenshtein with early exit once every cell in a
// row exceeds the matcher's maximum.
func (m *Matcher) distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if len(a)-len(b) > m.maxDistance || len(b)-len(a) > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

// BestParam suggests a declared parameter name for a mistyped one.
func BestParam(input string, names []string, maxDistance int) string {
	return NewMatcher(maxDistance).Best(input, names)
}

// BestCommand suggests a declared command name for a mistyped one.
func BestCommand(input string, names []string, maxDistance int) string {
	return NewMatcher(maxDistance).Best(input, names)
}

// Suggestions returns up to limit ranked candidates for an error message.
func Suggestions(input string, candidates []string, maxDistance, limit int) []string {
	ranked := NewMatcher(maxDistance).Rank(input, candidates)
	out := make([]string, 0, min(len(ranked), limit))
	for _, r := range ranked {
		if len(out) == limit {
			break
		}
		out = append(out, r.Value)
	}
	return out
}
