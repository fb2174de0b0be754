package search

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// --- Mocks ---

// fakeCorpus is an in-memory corpus whose lookup matches keywords exactly.
type fakeCorpus struct {
	mu          sync.Mutex
	recipes     []recipe.Recipe
	lookupErr   map[string]error // keyed by the token (first variant)
	fetchErr    error
	lookupCalls int
	fetchCalls  int
	variants    [][]string
}

func (f *fakeCorpus) LookupByAnyVariant(ctx context.Context, variants []string) ([]recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	f.variants = append(f.variants, variants)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.lookupErr[variants[0]]; ok {
		return nil, err
	}

	var out []recipe.Recipe
	for _, r := range f.recipes {
		if slices.ContainsFunc(r.Keywords(), func(k string) bool { return slices.Contains(variants, k) }) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCorpus) FetchAll(ctx context.Context) ([]recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return slices.Clone(f.recipes), nil
}

type mockRecorder struct {
	mu        sync.Mutex
	statuses  []string
	failures  map[string]int
	fallbacks int
}

func (m *mockRecorder) ObserveSearch(status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func (m *mockRecorder) LookupFailed(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures == nil {
		m.failures = make(map[string]int)
	}
	m.failures[op]++
}

func (m *mockRecorder) Fallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks++
}

func mustRecipe(t *testing.T, id, title, kind, region string) recipe.Recipe {
	t.Helper()
	r, err := recipe.New(id, title, kind, region)
	if err != nil {
		t.Fatalf("recipe.New(%q): %v", id, err)
	}
	return r
}

// frenchCorpus is the three-recipe corpus used across scenarios.
func frenchCorpus(t *testing.T) []recipe.Recipe {
	t.Helper()
	return []recipe.Recipe{
		mustRecipe(t, "coq", "Coq au Vin", "plat", "Bourgogne"),
		mustRecipe(t, "croissants", "Croissants Parisiens", "viennoiserie", "Île-de-France"),
		mustRecipe(t, "tarte", "Tarte aux Fraises", "dessert", "Île-de-France"),
	}
}

func ids(rs []recipe.Recipe) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].ID()
	}
	return out
}
