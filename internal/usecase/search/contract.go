package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Corpus is the read contract the search core needs from the recipe store.
type Corpus interface {
	// LookupByAnyVariant returns recipes whose keyword set intersects variants.
	LookupByAnyVariant(ctx context.Context, variants []string) ([]recipe.Recipe, error)
	// FetchAll returns the whole corpus. Used only as a fallback after an index miss.
	FetchAll(ctx context.Context) ([]recipe.Recipe, error)
}

// Recorder receives search diagnostics (implemented by the metrics package).
type Recorder interface {
	ObserveSearch(status string, elapsed time.Duration)
	LookupFailed(op string)
	Fallback()
}

type nopRecorder struct{}

func (nopRecorder) ObserveSearch(string, time.Duration) {}
func (nopRecorder) LookupFailed(string)                 {}
func (nopRecorder) Fallback()                           {}
