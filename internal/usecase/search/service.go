package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/outcome"
	"github.com/kailas-cloud/recipedex/internal/domain/search/query"
	"github.com/kailas-cloud/recipedex/internal/domain/search/text"
	logpkg "github.com/kailas-cloud/recipedex/internal/logger"
)

// DefaultLookupConcurrency bounds the number of in-flight token lookups.
const DefaultLookupConcurrency = 4

// Config holds the ranking knobs. Zero values fall back to defaults, except
// MaxCorrectionDistance where 0 accepts exact words only and negative means default.
type Config struct {
	SimilarityThreshold   float64
	MaxCorrectionDistance int
	LookupConcurrency     int
}

// Service runs fuzzy recipe search: indexed lookup per token with a full-scan
// fallback, edit-distance ranking, then type/region filtering and pagination.
type Service struct {
	corpus    Corpus
	cfg       Config
	corrector *text.Corrector
	recorder  Recorder
	logger    *zap.Logger
}

// New creates a search service. logger can be nil.
func New(corpus Corpus, cfg Config, logger *zap.Logger) *Service {
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.MaxCorrectionDistance < 0 {
		cfg.MaxCorrectionDistance = text.DefaultMaxCorrectionDistance
	}
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = DefaultLookupConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		corpus:    corpus,
		cfg:       cfg,
		corrector: text.NewCorrector(cfg.MaxCorrectionDistance),
		recorder:  nopRecorder{},
		logger:    logger,
	}
}

// WithRecorder attaches a metrics recorder.
func (s *Service) WithRecorder(r Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// Config returns the effective configuration after defaults.
func (s *Service) Config() Config { return s.cfg }

// Search returns the requested page of recipes matching q, best first.
// Backend failures degrade the outcome status instead of returning an error;
// the only error is the caller's context being done.
func (s *Service) Search(ctx context.Context, q *query.Query) (outcome.Outcome, error) {
	start := time.Now()
	log := logpkg.FromContextOr(ctx, s.logger)

	tokens := text.Tokenize(q.Text())

	var (
		cands candidates
		err   error
	)
	if len(tokens) == 0 {
		cands, err = s.fetchEverything(ctx, log)
	} else {
		cands, err = s.collect(ctx, tokens, log)
	}
	if err != nil {
		return outcome.Outcome{}, err
	}

	hits := rank(cands.recipes, tokens, s.cfg.SimilarityThreshold)
	suggestions := s.suggest(tokens, cands.recipes)
	hits = filterHits(hits, q.Type(), q.Region())
	total := len(hits)
	page := paginate(hits, q.Offset(), q.Limit())

	status := outcome.StatusFor(cands.calls, len(cands.errs))
	elapsed := time.Since(start)
	s.recorder.ObserveSearch(string(status), elapsed)

	log.Info("recipe_search",
		zap.Strings("tokens", tokens),
		zap.Int("candidates", len(cands.recipes)),
		zap.Int("matched", total),
		zap.Int("failures", len(cands.errs)),
		zap.String("status", string(status)),
		zap.Duration("latency", elapsed),
	)

	return outcome.New(page, total, status, cands.errs, suggestions), nil
}

// suggest proposes a spelling fix for each token that is not already a title word.
func (s *Service) suggest(tokens []string, cands []recipe.Recipe) map[string]string {
	if len(tokens) == 0 || len(cands) == 0 {
		return nil
	}
	titles := make([]string, len(cands))
	for i := range cands {
		titles[i] = cands[i].Title()
	}

	var out map[string]string
	for _, tok := range tokens {
		fixed, ok := s.corrector.Correct(tok, titles)
		if !ok || fixed == tok {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[tok] = fixed
	}
	return out
}
