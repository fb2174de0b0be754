package outcome

import "github.com/kailas-cloud/recipedex/internal/domain/recipe"

// Status reports how much of the corpus a search could actually read.
type Status string

const (
	// OK means every corpus call succeeded.
	OK Status = "ok"
	// Partial means some corpus calls failed; items come from the ones that succeeded.
	Partial Status = "partial"
	// Failed means every corpus call failed; there are no items.
	Failed Status = "failed"
)

// StatusFor derives the status from the number of corpus calls made and failed.
func StatusFor(calls, failures int) Status {
	switch {
	case failures == 0:
		return OK
	case failures >= calls:
		return Failed
	default:
		return Partial
	}
}

// Hit is a ranked search match.
type Hit struct {
	recipe recipe.Recipe
	score  float64
}

// NewHit creates a ranked match.
func NewHit(r recipe.Recipe, score float64) Hit {
	return Hit{recipe: r, score: score}
}

// Recipe returns the matched recipe.
func (h *Hit) Recipe() recipe.Recipe { return h.recipe }

// Score returns the relevance score in [0, 1].
func (h *Hit) Score() float64 { return h.score }

// Outcome is the result of one search: the requested page of ranked hits plus
// side-channel diagnostics. A backend failure never turns into an error; it shows
// up as a Partial or Failed status with the causes in Errors.
type Outcome struct {
	hits        []Hit
	total       int
	status      Status
	errs        []error
	suggestions map[string]string
}

// New creates a search outcome.
func New(hits []Hit, total int, status Status, errs []error, suggestions map[string]string) Outcome {
	return Outcome{hits: hits, total: total, status: status, errs: errs, suggestions: suggestions}
}

// Hits returns the ranked matches on the requested page.
func (o *Outcome) Hits() []Hit { return o.hits }

// Recipes returns the matched recipes in rank order.
func (o *Outcome) Recipes() []recipe.Recipe {
	out := make([]recipe.Recipe, len(o.hits))
	for i := range o.hits {
		out[i] = o.hits[i].recipe
	}
	return out
}

// Total returns the number of matches across all pages.
func (o *Outcome) Total() int { return o.total }

// Status returns the degradation status.
func (o *Outcome) Status() Status { return o.status }

// Errors returns the corpus failures observed during the search.
func (o *Outcome) Errors() []error { return o.errs }

// Suggestions maps query tokens to spelling corrections found in candidate titles.
func (o *Outcome) Suggestions() map[string]string { return o.suggestions }
