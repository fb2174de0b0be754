package recipe

import (
	"context"
	"testing"

	"github.com/kailas-cloud/recipedex/internal/db"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	delFn         func(ctx context.Context, key string) error
	existsFn      func(ctx context.Context, key string) (bool, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchListFn  func(
		ctx context.Context, index, query string, offset, limit int, fields []string,
	) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, index, query string) (int, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, index, query, offset, limit, fields)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func newTestRepo(t *testing.T, opts Options) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, opts), ms
}

func testRecipe(t *testing.T) domrecipe.Recipe {
	t.Helper()
	rec, err := domrecipe.New("tarte", "Tarte aux Fraises", "dessert", "Île-de-France")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

// entry builds a search hit the way FT.SEARCH returns a stored recipe.
func entry(id, title, keywords string) db.SearchEntry {
	return db.SearchEntry{
		Key: "recipedex:recipe:" + id,
		Fields: map[string]string{
			"title":    title,
			"keywords": keywords,
			"type":     "plat",
			"region":   "Bourgogne",
		},
	}
}

// scanningStore adds the single-pass ScanAll that the Valkey store offers.
type scanningStore struct {
	*mockStore
	scanAllFn func(ctx context.Context, index string, limit int, fields []string) (*db.SearchResult, error)
}

func (s *scanningStore) ScanAll(ctx context.Context, index string, limit int, fields []string) (*db.SearchResult, error) {
	return s.scanAllFn(ctx, index, limit, fields)
}
