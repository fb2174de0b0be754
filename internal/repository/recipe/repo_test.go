package recipe

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/recipedex/internal/db"
	"github.com/kailas-cloud/recipedex/internal/domain"
)

// --- Upsert ---

func TestUpsert_Create(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})
	rec := testRecipe(t)

	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		if key != "recipedex:recipe:tarte" {
			t.Errorf("unexpected key: %s", key)
		}
		return false, nil
	}
	var stored map[string]string
	ms.hsetFn = func(_ context.Context, _ string, fields map[string]string) error {
		stored = fields
		return nil
	}

	created, err := repo.Upsert(context.Background(), &rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true for new recipe")
	}
	if stored["keywords"] != "tarte,aux,fraises" {
		t.Errorf("keywords = %q, want tarte,aux,fraises", stored["keywords"])
	}
	if stored["title"] != "Tarte aux Fraises" || stored["type"] != "dessert" || stored["region"] != "Île-de-France" {
		t.Errorf("unexpected hash: %v", stored)
	}
}

func TestUpsert_Update(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})
	rec := testRecipe(t)

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	created, err := repo.Upsert(context.Background(), &rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected created=false for existing recipe")
	}
}

func TestUpsert_HSetError(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})
	rec := testRecipe(t)

	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return &db.Error{Op: db.OpHSet, Err: errors.New("OOM")}
	}

	if _, err := repo.Upsert(context.Background(), &rec); err == nil {
		t.Fatal("expected error on HSET failure")
	}
}

func TestUpsert_CustomPrefix(t *testing.T) {
	repo, ms := newTestRepo(t, Options{KeyPrefix: "staging:"})
	rec := testRecipe(t)

	ms.hsetFn = func(_ context.Context, key string, _ map[string]string) error {
		if key != "staging:recipe:tarte" {
			t.Errorf("unexpected key: %s", key)
		}
		return nil
	}
	if _, err := repo.Upsert(context.Background(), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- Get ---

func TestGet_Found(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{
			"title":    "Coq au Vin",
			"keywords": "coq,au,vin",
			"type":     "plat",
			"region":   "Bourgogne",
		}, nil
	}

	rec, err := repo.Get(context.Background(), "coq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID() != "coq" || rec.Title() != "Coq au Vin" || rec.Region() != "Bourgogne" {
		t.Errorf("unexpected recipe: %+v", rec)
	}
	if !slices.Equal(rec.Keywords(), []string{"coq", "au", "vin"}) {
		t.Errorf("keywords = %v", rec.Keywords())
	}
}

func TestGet_RecomputesMissingKeywords(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"title": "Crème Brûlée"}, nil
	}

	rec, err := repo.Get(context.Background(), "creme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(rec.Keywords(), []string{"creme", "brulee"}) {
		t.Errorf("keywords = %v, want [creme brulee]", rec.Keywords())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t, Options{})

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

// --- Delete ---

func TestDelete_Success(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	deleted := ""
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}

	if err := repo.Delete(context.Background(), "coq"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "recipedex:recipe:coq" {
		t.Errorf("deleted %q, want recipedex:recipe:coq", deleted)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t, Options{})

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

// --- List ---

func TestList_NextCursor(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.searchListFn = func(
		_ context.Context, index, query string, offset, limit int, _ []string,
	) (*db.SearchResult, error) {
		if index != "recipedex:recipe:idx" || query != "*" {
			t.Errorf("unexpected search %s %s", index, query)
		}
		if offset != 2 || limit != 3 {
			t.Errorf("offset/limit = %d/%d, want 2/3", offset, limit)
		}
		return &db.SearchResult{Total: 5, Entries: []db.SearchEntry{
			entry("a", "A", "a"), entry("b", "B", "b"), entry("c", "C", "c"),
		}}, nil
	}

	recipes, next, err := repo.List(context.Background(), "2", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}
	if next != "4" {
		t.Errorf("next cursor = %q, want 4", next)
	}
}

func TestList_LastPage(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.searchListFn = func(
		_ context.Context, _, _ string, _, _ int, _ []string,
	) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{entry("a", "A", "a")}}, nil
	}

	recipes, next, err := repo.List(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 1 || next != "" {
		t.Errorf("got %d recipes and cursor %q, want 1 and empty", len(recipes), next)
	}
}

func TestList_InvalidCursor(t *testing.T) {
	repo, _ := newTestRepo(t, Options{})

	for _, cursor := range []string{"abc", "-1"} {
		_, _, err := repo.List(context.Background(), cursor, 10)
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("cursor %q: expected ErrInvalidQuery, got %v", cursor, err)
		}
	}
}

// --- LookupByAnyVariant ---

func TestLookupByAnyVariant_TagQuery(t *testing.T) {
	repo, ms := newTestRepo(t, Options{LookupLimit: 50})

	ms.searchListFn = func(
		_ context.Context, index, query string, offset, limit int, fields []string,
	) (*db.SearchResult, error) {
		if index != "recipedex:recipe:idx" {
			t.Errorf("index = %q", index)
		}
		if query != "@keywords:{fraises|fraise}" {
			t.Errorf("query = %q", query)
		}
		if offset != 0 || limit != 50 {
			t.Errorf("offset/limit = %d/%d, want 0/50", offset, limit)
		}
		if !slices.Equal(fields, []string{"title", "keywords", "type", "region"}) {
			t.Errorf("fields = %v", fields)
		}
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{
			entry("tarte", "Tarte aux Fraises", "tarte,aux,fraises"),
		}}, nil
	}

	recipes, err := repo.LookupByAnyVariant(context.Background(), []string{"fraises", "fraise"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 1 || recipes[0].ID() != "tarte" {
		t.Fatalf("unexpected recipes: %+v", recipes)
	}
}

func TestLookupByAnyVariant_NoVariants(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.searchListFn = func(
		_ context.Context, _, _ string, _, _ int, _ []string,
	) (*db.SearchResult, error) {
		t.Fatal("store should not be called")
		return nil, nil
	}

	recipes, err := repo.LookupByAnyVariant(context.Background(), nil)
	if err != nil || recipes != nil {
		t.Fatalf("got %v, %v; want nil, nil", recipes, err)
	}
}

func TestLookupByAnyVariant_Error(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.searchListFn = func(
		_ context.Context, _, _ string, _, _ int, _ []string,
	) (*db.SearchResult, error) {
		return nil, &db.Error{Op: db.OpSearch, Err: errors.New("Unknown Index name")}
	}

	_, err := repo.LookupByAnyVariant(context.Background(), []string{"coq"})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- FetchAll ---

func TestFetchAll_Pages(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	var offsets []int
	ms.searchListFn = func(
		_ context.Context, _, query string, offset, limit int, _ []string,
	) (*db.SearchResult, error) {
		if query != "*" {
			t.Errorf("query = %q, want *", query)
		}
		offsets = append(offsets, offset)
		total := 700
		n := min(limit, total-offset)
		entries := make([]db.SearchEntry, n)
		for i := range entries {
			entries[i] = entry("r", "R", "r")
		}
		return &db.SearchResult{Total: total, Entries: entries}, nil
	}

	recipes, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 700 {
		t.Errorf("expected 700 recipes, got %d", len(recipes))
	}
	if !slices.Equal(offsets, []int{0, 500}) {
		t.Errorf("offsets = %v, want [0 500]", offsets)
	}
}

func TestFetchAll_Limit(t *testing.T) {
	repo, ms := newTestRepo(t, Options{FetchAllLimit: 3})

	ms.searchListFn = func(
		_ context.Context, _, _ string, offset, limit int, _ []string,
	) (*db.SearchResult, error) {
		if offset != 0 || limit != 3 {
			t.Errorf("offset/limit = %d/%d, want 0/3", offset, limit)
		}
		return &db.SearchResult{Total: 10, Entries: []db.SearchEntry{
			entry("a", "A", "a"), entry("b", "B", "b"), entry("c", "C", "c"),
		}}, nil
	}

	recipes, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 3 {
		t.Errorf("expected 3 recipes, got %d", len(recipes))
	}
}

func TestFetchAll_Error(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.searchListFn = func(
		_ context.Context, _, _ string, _, _ int, _ []string,
	) (*db.SearchResult, error) {
		return nil, errors.New("connection refused")
	}

	if _, err := repo.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- EnsureIndex ---

func TestEnsureIndex_Creates(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	var def *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, d *db.IndexDefinition) error {
		def = d
		return nil
	}

	created, err := repo.EnsureIndex(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true")
	}
	if def.Name != "recipedex:recipe:idx" || !slices.Equal(def.Prefixes, []string{"recipedex:recipe:"}) {
		t.Errorf("unexpected definition: %s", def)
	}
	if def.Fields[0].Name != "keywords" || def.Fields[0].TagSeparator != "," {
		t.Errorf("keywords field = %+v", def.Fields[0])
	}
}

func TestEnsureIndex_Exists(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Fatal("CreateIndex should not be called")
		return nil
	}

	created, err := repo.EnsureIndex(context.Background())
	if err != nil || created {
		t.Fatalf("got created=%v err=%v, want false nil", created, err)
	}
}

func TestEnsureIndex_Race(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error { return db.ErrIndexExists }

	created, err := repo.EnsureIndex(context.Background())
	if err != nil || created {
		t.Fatalf("got created=%v err=%v, want false nil", created, err)
	}
}

func TestIndexReady(t *testing.T) {
	repo, ms := newTestRepo(t, Options{})

	if err := repo.IndexReady(context.Background()); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	if err := repo.IndexReady(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFetchAll_SinglePassWhenStoreScans(t *testing.T) {
	ms := &mockStore{
		searchListFn: func(context.Context, string, string, int, int, []string) (*db.SearchResult, error) {
			t.Error("SearchList must not be called when the store scans in one pass")
			return nil, nil
		},
	}
	var calls, gotLimit int
	var gotIndex string
	ss := &scanningStore{
		mockStore: ms,
		scanAllFn: func(_ context.Context, index string, limit int, _ []string) (*db.SearchResult, error) {
			calls++
			gotIndex, gotLimit = index, limit
			return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
				entry("coq", "Coq au Vin", "coq,au,vin"),
				entry("tarte", "Tarte aux Fraises", "tarte,aux,fraises"),
			}}, nil
		},
	}
	repo := New(ss, Options{FetchAllLimit: 1200})

	recipes, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("ScanAll calls = %d, want 1", calls)
	}
	if gotIndex != "recipedex:recipe:idx" || gotLimit != 1200 {
		t.Errorf("ScanAll(%q, %d), want recipedex:recipe:idx, 1200", gotIndex, gotLimit)
	}
	if len(recipes) != 2 || recipes[1].ID() != "tarte" {
		t.Errorf("unexpected recipes: %+v", recipes)
	}
}

func TestFetchAll_ScanError(t *testing.T) {
	ss := &scanningStore{
		mockStore: &mockStore{},
		scanAllFn: func(context.Context, string, int, []string) (*db.SearchResult, error) {
			return nil, errors.New("scan failed")
		},
	}
	if _, err := New(ss, Options{}).FetchAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
