package search

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/search/outcome"
	"github.com/kailas-cloud/recipedex/internal/domain/search/query"
	"github.com/kailas-cloud/recipedex/internal/domain/search/text"
)

var errBackend = errors.New("backend unavailable")

func makeQuery(t *testing.T, text string) *query.Query {
	t.Helper()
	q, err := query.New(text, "", "", 1, 20)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return &q
}

func newTestService(corpus Corpus) (*Service, *mockRecorder) {
	rec := &mockRecorder{}
	cfg := Config{MaxCorrectionDistance: text.DefaultMaxCorrectionDistance}
	return New(corpus, cfg, nil).WithRecorder(rec), rec
}

// --- Tests ---

func TestNew_Defaults(t *testing.T) {
	svc := New(&fakeCorpus{}, Config{MaxCorrectionDistance: -1}, nil)
	cfg := svc.Config()
	if cfg.SimilarityThreshold != DefaultSimilarityThreshold {
		t.Errorf("threshold = %f", cfg.SimilarityThreshold)
	}
	if cfg.MaxCorrectionDistance != 2 {
		t.Errorf("correction distance = %d", cfg.MaxCorrectionDistance)
	}
	if cfg.LookupConcurrency != DefaultLookupConcurrency {
		t.Errorf("concurrency = %d", cfg.LookupConcurrency)
	}
}

func TestSearch_TypoFallsBackToFullScan(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc, rec := newTestService(corpus)

	out, err := svc.Search(context.Background(), makeQuery(t, "tart"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Recipes()); !slices.Equal(got, []string{"tarte"}) {
		t.Errorf("results = %v, want [tarte]", got)
	}
	if corpus.fetchCalls != 1 {
		t.Errorf("FetchAll calls = %d, want 1", corpus.fetchCalls)
	}
	if out.Status() != outcome.OK {
		t.Errorf("status = %q, want ok", out.Status())
	}
	if out.Suggestions()["tart"] != "tarte" {
		t.Errorf("suggestions = %v, want tart->tarte", out.Suggestions())
	}
	if rec.fallbacks != 1 {
		t.Errorf("fallbacks recorded = %d, want 1", rec.fallbacks)
	}
	if !slices.Equal(rec.statuses, []string{"ok"}) {
		t.Errorf("statuses recorded = %v", rec.statuses)
	}
}

func TestSearch_IndexHitSkipsFallback(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc, _ := newTestService(corpus)

	out, err := svc.Search(context.Background(), makeQuery(t, "Fraises"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Recipes()); !slices.Equal(got, []string{"tarte"}) {
		t.Errorf("results = %v, want [tarte]", got)
	}
	if corpus.fetchCalls != 0 {
		t.Errorf("FetchAll must not run on an index hit, got %d calls", corpus.fetchCalls)
	}
}

func TestSearch_LooksUpVariants(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc, _ := newTestService(corpus)

	out, err := svc.Search(context.Background(), makeQuery(t, "fraise"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Recipes()); !slices.Equal(got, []string{"tarte"}) {
		t.Errorf("results = %v, want [tarte]", got)
	}
	if !slices.Equal(corpus.variants[0], []string{"fraise", "fraises"}) {
		t.Errorf("variants = %v", corpus.variants[0])
	}
	if corpus.fetchCalls != 0 {
		t.Errorf("plural variant should hit the index, got %d FetchAll calls", corpus.fetchCalls)
	}
}

func TestSearch_EmptyQueryReturnsCorpusInOrder(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc, _ := newTestService(corpus)

	out, err := svc.Search(context.Background(), makeQuery(t, "   "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Recipes()); !slices.Equal(got, []string{"coq", "croissants", "tarte"}) {
		t.Errorf("results = %v", got)
	}
	if corpus.lookupCalls != 0 {
		t.Errorf("empty query must skip lookups, got %d", corpus.lookupCalls)
	}
	if out.Total() != 3 {
		t.Errorf("total = %d, want 3", out.Total())
	}
}

func TestSearch_EmptyQueryFetchFailure(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t), fetchErr: errBackend}
	svc, _ := newTestService(corpus)

	out, err := svc.Search(context.Background(), makeQuery(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Hits()) != 0 || out.Status() != outcome.Failed {
		t.Errorf("expected failed empty outcome, got %d hits status %q", len(out.Hits()), out.Status())
	}
}

func TestSearch_DedupAcrossTokens(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc, _ := newTestService(corpus)

	out, err := svc.Search(context.Background(), makeQuery(t, "tarte fraises"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Recipes()); !slices.Equal(got, []string{"tarte"}) {
		t.Errorf("results = %v, want a single tarte", got)
	}
}

func TestSearch_PartialFailure(t *testing.T) {
	corpus := &fakeCorpus{
		recipes:   frenchCorpus(t),
		lookupErr: map[string]error{"coq": errBackend},
	}
	svc, rec := newTestService(corpus)

	out, err := svc.Search(context.Background(), makeQuery(t, "coq tarte"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Hits()) == 0 {
		t.Fatal("expected results from the surviving token")
	}
	if !slices.Contains(ids(out.Recipes()), "tarte") {
		t.Errorf("results = %v, want tarte included", ids(out.Recipes()))
	}
	if out.Status() != outcome.Partial {
		t.Errorf("status = %q, want partial", out.Status())
	}
	if len(out.Errors()) != 1 {
		t.Fatalf("errors = %v, want 1", out.Errors())
	}
	var lerr *LookupError
	if !errors.As(out.Errors()[0], &lerr) || lerr.Token != "coq" || lerr.Op != OpLookup {
		t.Errorf("unexpected error %v", out.Errors()[0])
	}
	if rec.failures[OpLookup] != 1 {
		t.Errorf("lookup failures recorded = %d", rec.failures[OpLookup])
	}
}

func TestSearch_TotalFailure(t *testing.T) {
	corpus := &fakeCorpus{
		recipes:   frenchCorpus(t),
		lookupErr: map[string]error{"coq": errBackend, "vin": errBackend},
		fetchErr:  errBackend,
	}
	svc, _ := newTestService(corpus)

	out, err := svc.Search(context.Background(), makeQuery(t, "coq vin"))
	if err != nil {
		t.Fatalf("total failure must not return an error, got %v", err)
	}
	if len(out.Hits()) != 0 {
		t.Errorf("expected no results, got %v", ids(out.Recipes()))
	}
	if out.Status() != outcome.Failed {
		t.Errorf("status = %q, want failed", out.Status())
	}
	if len(out.Errors()) != 3 {
		t.Fatalf("errors = %d, want 3 (two lookups and the fallback)", len(out.Errors()))
	}
	for _, e := range out.Errors() {
		if !errors.Is(e, domain.ErrLookup) || !errors.Is(e, errBackend) {
			t.Errorf("error %v must wrap ErrLookup and the cause", e)
		}
	}
}

func TestSearch_FetchAllOncePerSearch(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc, _ := newTestService(corpus)

	if _, err := svc.Search(context.Background(), makeQuery(t, "xx yy zz")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if corpus.lookupCalls != 3 {
		t.Errorf("lookup calls = %d, want 3", corpus.lookupCalls)
	}
	if corpus.fetchCalls != 1 {
		t.Errorf("FetchAll calls = %d, want 1", corpus.fetchCalls)
	}
}

func TestSearch_FiltersAndPaginates(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc, _ := newTestService(corpus)

	q, err := query.New("", "", "Ile-de-France", 2, 1)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	out, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total() != 2 {
		t.Errorf("total = %d, want 2", out.Total())
	}
	if got := ids(out.Recipes()); !slices.Equal(got, []string{"tarte"}) {
		t.Errorf("page 2 = %v, want [tarte]", got)
	}
}

func TestSearch_ThresholdIsConfigurable(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}

	// "croisants" vs "croissants parisiens" scores 0.45: below the default,
	// above a permissive threshold.
	strict := New(corpus, Config{}, nil)
	out, err := strict.Search(context.Background(), makeQuery(t, "croisants"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Hits()) != 0 {
		t.Errorf("default threshold: got %v, want none", ids(out.Recipes()))
	}

	loose := New(corpus, Config{SimilarityThreshold: 0.4}, nil)
	out, err = loose.Search(context.Background(), makeQuery(t, "croisants"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Recipes()); !slices.Equal(got, []string{"croissants"}) {
		t.Errorf("loose threshold: got %v, want [croissants]", got)
	}
}

func TestSearch_ContextCancelled(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc, _ := newTestService(corpus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, makeQuery(t, "tarte"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNew_ZeroCorrectionDistanceKept(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc := New(corpus, Config{}, nil)
	if got := svc.Config().MaxCorrectionDistance; got != 0 {
		t.Fatalf("correction distance = %d, want 0", got)
	}

	out, err := svc.Search(context.Background(), makeQuery(t, "tart"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Suggestions()) != 0 {
		t.Errorf("suggestions = %v, want none with exact-only correction", out.Suggestions())
	}
}

func TestSearch_LastAllowedPageIsEmpty(t *testing.T) {
	corpus := &fakeCorpus{recipes: frenchCorpus(t)}
	svc, _ := newTestService(corpus)

	q, err := query.New("tarte", "", "", query.MaxPage, query.MaxLimit)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	out, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Hits()) != 0 {
		t.Errorf("hits = %v, want empty page", ids(out.Recipes()))
	}
	if out.Total() != 1 {
		t.Errorf("total = %d, want 1", out.Total())
	}
}
