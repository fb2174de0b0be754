package search

import (
	"sort"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/outcome"
	"github.com/kailas-cloud/recipedex/internal/domain/search/text"
)

// DefaultSimilarityThreshold is the minimum title similarity kept by rank.
const DefaultSimilarityThreshold = 0.6

// rank scores each candidate title against the query tokens and keeps it when
// score >= threshold or a token appears verbatim in the normalized title.
// Ties keep candidate order.
//
// Without tokens every candidate matches equally: order is preserved, score 1.
func rank(cands []recipe.Recipe, tokens []string, threshold float64) []outcome.Hit {
	hits := make([]outcome.Hit, 0, len(cands))

	if len(tokens) == 0 {
		for _, r := range cands {
			hits = append(hits, outcome.NewHit(r, 1))
		}
		return hits
	}

	for _, r := range cands {
		title := text.Normalize(r.Title())
		score := text.BestSimilarity(tokens, title)
		if score >= threshold || text.ContainsAny(tokens, title) {
			hits = append(hits, outcome.NewHit(r, score))
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score() > hits[j].Score()
	})

	return hits
}

// filterHits applies the structured type/region equality filters after ranking.
func filterHits(hits []outcome.Hit, kind, region string) []outcome.Hit {
	if kind == "" && region == "" {
		return hits
	}
	kind, region = text.Normalize(kind), text.Normalize(region)

	filtered := hits[:0]
	for _, h := range hits {
		r := h.Recipe()
		if kind != "" && text.Normalize(r.Type()) != kind {
			continue
		}
		if region != "" && text.Normalize(r.Region()) != region {
			continue
		}
		filtered = append(filtered, h)
	}
	return filtered
}

// paginate returns the [offset, offset+limit) window of hits.
func paginate(hits []outcome.Hit, offset, limit int) []outcome.Hit {
	if offset < 0 || offset >= len(hits) {
		return []outcome.Hit{}
	}
	end := min(offset+limit, len(hits))
	return hits[offset:end]
}
