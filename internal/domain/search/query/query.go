package query

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed free-text query length.
	MaxTextLength = 1024
	DefaultLimit  = 20
	MaxLimit      = 100
	// MaxPage keeps (page-1)*limit within int range.
	MaxPage = math.MaxInt / MaxLimit
)

// Query is a validated recipe search request.
// An empty text means "no text filter": every recipe matches.
type Query struct {
	text   string
	kind   string
	region string
	page   int
	limit  int
}

// New validates and normalizes search parameters.
// Defaults: page=1, limit=DefaultLimit. Limit is clamped to MaxLimit.
func New(text, kind, region string, page, limit int) (Query, error) {
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxTextLength)
	}
	if page < 0 {
		return Query{}, fmt.Errorf("%w: page must be positive", domain.ErrInvalidQuery)
	}
	if page > MaxPage {
		return Query{}, fmt.Errorf("%w: page must be at most %d", domain.ErrInvalidQuery, MaxPage)
	}
	if limit < 0 {
		return Query{}, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidQuery)
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Query{text: text, kind: kind, region: region, page: page, limit: limit}, nil
}

// Text returns the raw free-text query.
func (q *Query) Text() string { return q.text }

// Type returns the recipe type filter ("" = any).
func (q *Query) Type() string { return q.kind }

// Region returns the region filter ("" = any).
func (q *Query) Region() string { return q.region }

// Page returns the 1-based page number.
func (q *Query) Page() int { return q.page }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }

// Offset returns the index of the first item on the page.
func (q *Query) Offset() int { return (q.page - 1) * q.limit }
