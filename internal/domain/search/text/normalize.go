// Package text holds the pure string primitives behind recipe search:
// normalization, tokenization, spelling variants, edit distance and
// spell correction. Nothing here performs I/O.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips diacritics ("Crème Brûlée" -> "creme brulee").
// Punctuation is preserved.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	// transform.Chain keeps internal state, so a fresh chain is built per call.
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripAccents, lower)
	if err != nil {
		return lower
	}
	return out
}

// Tokenize normalizes s and splits it on whitespace.
// Empty or blank input yields an empty slice, which callers treat as "match everything".
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// Keywords returns the distinct tokens of s in first-seen order.
// Used to precompute the indexed keyword set of a recipe title.
func Keywords(s string) []string {
	tokens := Tokenize(s)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
