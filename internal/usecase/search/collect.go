package search

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/text"
)

// candidates is the deduplicated output of the collection phase.
type candidates struct {
	recipes []recipe.Recipe
	calls   int
	errs    []error
}

// tokenSlot holds one token's lookup result. Each goroutine writes only its own slot.
type tokenSlot struct {
	recipes []recipe.Recipe
	err     *LookupError
}

// collect runs one indexed lookup per token and widens to a single full scan if
// any token comes back empty (a failed lookup counts as empty). Results are
// merged in token order, lookup hits before fallback hits, and deduplicated by id.
func (s *Service) collect(ctx context.Context, tokens []string, log *zap.Logger) (candidates, error) {
	slots := make([]tokenSlot, len(tokens))

	var g errgroup.Group
	g.SetLimit(s.cfg.LookupConcurrency)
	for i, tok := range tokens {
		g.Go(func() error {
			found, err := s.corpus.LookupByAnyVariant(ctx, text.Variants(tok))
			if err != nil {
				slots[i].err = &LookupError{Token: tok, Op: OpLookup, Err: err}
				return nil
			}
			slots[i].recipes = found
			return nil
		})
	}
	_ = g.Wait() // goroutines never fail; errors live in the slots

	if err := ctx.Err(); err != nil {
		return candidates{}, err
	}

	out := candidates{calls: len(tokens)}
	needFallback := false
	for _, slot := range slots {
		if slot.err != nil {
			out.errs = append(out.errs, slot.err)
			s.reportFailure(log, slot.err)
		}
		if len(slot.recipes) == 0 {
			needFallback = true
		}
	}

	var everything []recipe.Recipe
	if needFallback {
		s.recorder.Fallback()
		out.calls++
		all, err := s.corpus.FetchAll(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return candidates{}, ctxErr
			}
			lerr := &LookupError{Op: OpFetchAll, Err: err}
			out.errs = append(out.errs, lerr)
			s.reportFailure(log, lerr)
		}
		everything = all
	}

	seen := make(map[string]struct{})
	merge := func(rs []recipe.Recipe) {
		for _, r := range rs {
			if _, ok := seen[r.ID()]; ok {
				continue
			}
			seen[r.ID()] = struct{}{}
			out.recipes = append(out.recipes, r)
		}
	}
	for _, slot := range slots {
		merge(slot.recipes)
		if len(slot.recipes) == 0 {
			merge(everything)
		}
	}

	return out, nil
}

// fetchEverything serves the no-text case: the whole corpus, unranked.
func (s *Service) fetchEverything(ctx context.Context, log *zap.Logger) (candidates, error) {
	all, err := s.corpus.FetchAll(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return candidates{}, ctxErr
		}
		lerr := &LookupError{Op: OpFetchAll, Err: err}
		s.reportFailure(log, lerr)
		return candidates{calls: 1, errs: []error{lerr}}, nil
	}
	return candidates{recipes: all, calls: 1}, nil
}

func (s *Service) reportFailure(log *zap.Logger, err *LookupError) {
	s.recorder.LookupFailed(err.Op)
	log.Warn("Corpus lookup failed",
		zap.String("op", err.Op),
		zap.String("token", err.Token),
		zap.Error(err.Err),
	)
}
