package recipedex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain/search/outcome"
	"github.com/kailas-cloud/recipedex/internal/domain/search/query"
)

// SearchOption narrows or pages a search.
type SearchOption func(*searchParams)

type searchParams struct {
	kind   string
	region string
	page   int
	limit  int
}

// WithType keeps only recipes of the given type (accent and case insensitive).
func WithType(kind string) SearchOption {
	return func(p *searchParams) { p.kind = kind }
}

// WithRegion keeps only recipes of the given region (accent and case insensitive).
func WithRegion(region string) SearchOption {
	return func(p *searchParams) { p.region = region }
}

// WithPage selects a 1-based page of limit hits. Defaults: page 1, limit 20, max limit 100.
func WithPage(page, limit int) SearchOption {
	return func(p *searchParams) {
		p.page = page
		p.limit = limit
	}
}

// Search ranks recipes whose titles fuzzily match text, best first.
// An empty text lists every recipe in storage order.
//
// Backend failures do not fail the call: they lower SearchResult.Status and
// are listed in SearchResult.Failures. The returned error is reserved for
// invalid parameters and a cancelled context.
func (c *Client) Search(ctx context.Context, text string, opts ...SearchOption) (_ *SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	var p searchParams
	for _, o := range opts {
		o(&p)
	}

	q, err := query.New(text, p.kind, p.region, p.page, p.limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out, err := c.searchSvc.Search(ctx, &q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	res := searchResultFromOutcome(&out)
	c.obs.searched(res.Status, res.Failures)
	return res, nil
}

func searchResultFromOutcome(out *outcome.Outcome) *SearchResult {
	hits := out.Hits()
	res := &SearchResult{
		Hits:        make([]Hit, len(hits)),
		Total:       out.Total(),
		Status:      SearchStatus(out.Status()),
		Failures:    out.Errors(),
		Suggestions: out.Suggestions(),
	}
	for i := range hits {
		rec := hits[i].Recipe()
		res.Hits[i] = Hit{Recipe: recipeFromDomain(&rec), Score: hits[i].Score()}
	}
	return res
}
