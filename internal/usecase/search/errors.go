package search

import (
	"fmt"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

// Corpus operations reported in LookupError.Op.
const (
	OpLookup   = "lookup"
	OpFetchAll = "fetch_all"
)

// LookupError records one failed corpus call. It matches both domain.ErrLookup
// and the underlying cause under errors.Is.
type LookupError struct {
	Token string // empty for FetchAll
	Op    string
	Err   error
}

func (e *LookupError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %s: %v", domain.ErrLookup, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %v", domain.ErrLookup, e.Op, e.Token, e.Err)
}

func (e *LookupError) Unwrap() []error { return []error{domain.ErrLookup, e.Err} }
