package text

import (
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Levenshtein returns the unit-cost edit distance between a and b, counted in runes.
// It is case-sensitive; callers lowercase beforehand.
func Levenshtein(a, b string) int {
	return fuzzy.LevenshteinDistance(a, b)
}

// Similarity returns 1 - lev(a, b) / max(len(a), len(b)) on lowercased input.
// Two empty strings are identical (1). The result is always in [0, 1].
func Similarity(a, b string) float64 {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(la), utf8.RuneCountInString(lb))
	if longest == 0 {
		return 1
	}
	s := 1 - float64(Levenshtein(la, lb))/float64(longest)
	return min(max(s, 0), 1)
}

// BestSimilarity scores target against every token and keeps the highest value.
// No tokens means no evidence, so the score is 0.
func BestSimilarity(tokens []string, target string) float64 {
	best := 0.0
	for _, t := range tokens {
		if s := Similarity(t, target); s > best {
			best = s
		}
	}
	return best
}

// ContainsAny reports whether any token is a literal substring of target.
func ContainsAny(tokens []string, target string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(target, t) {
			return true
		}
	}
	return false
}
