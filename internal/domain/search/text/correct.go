package text

import "unicode/utf8"

// DefaultMaxCorrectionDistance is the largest edit distance accepted as a spelling fix.
const DefaultMaxCorrectionDistance = 2

// Corrector finds the closest word across a set of titles for a possibly misspelled token.
type Corrector struct {
	maxDistance int
}

// NewCorrector creates a Corrector. A negative maxDistance falls back to the default.
func NewCorrector(maxDistance int) *Corrector {
	if maxDistance < 0 {
		maxDistance = DefaultMaxCorrectionDistance
	}
	return &Corrector{maxDistance: maxDistance}
}

// MaxDistance returns the accepted edit distance cutoff.
func (c *Corrector) MaxDistance() int { return c.maxDistance }

// Correct returns the title word nearest to token and true when its edit
// distance is within the cutoff. Ties keep the first word seen.
func (c *Corrector) Correct(token string, titles []string) (string, bool) {
	if token == "" {
		return "", false
	}
	tokenLen := utf8.RuneCountInString(token)

	best, bestDist := "", -1
	for _, title := range titles {
		for _, word := range Tokenize(title) {
			// Length difference is a lower bound on the distance.
			diff := utf8.RuneCountInString(word) - tokenLen
			if diff < 0 {
				diff = -diff
			}
			if diff > c.maxDistance || (bestDist >= 0 && diff >= bestDist) {
				continue
			}
			d := Levenshtein(token, word)
			if bestDist < 0 || d < bestDist {
				best, bestDist = word, d
				if d == 0 {
					return best, true
				}
			}
		}
	}

	if bestDist < 0 || bestDist > c.maxDistance {
		return "", false
	}
	return best, true
}
