package text

import (
	"slices"
	"strings"
)

// Variants expands a normalized token into a few plausible spellings so an
// exact-token index still finds simple French plural and -ie/-y mismatches.
// The token itself always comes first; the result holds 1 to 3 distinct entries.
//
// This is a heuristic, not a stemmer: a token ending in "s" is singularized,
// any other token is pluralized, never both.
func Variants(token string) []string {
	out := make([]string, 1, 3)
	out[0] = token

	add := func(v string) {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}

	if base, ok := strings.CutSuffix(token, "s"); ok {
		add(base)
	} else {
		add(token + "s")
	}
	if base, ok := strings.CutSuffix(token, "ie"); ok {
		add(base + "y")
	}
	if base, ok := strings.CutSuffix(token, "y"); ok {
		add(base + "ie")
	}

	return out
}
