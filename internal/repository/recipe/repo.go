package recipe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/recipedex/internal/db"
	"github.com/kailas-cloud/recipedex/internal/domain"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Defaults for Options fields left at zero.
const (
	DefaultLookupLimit   = 1000
	DefaultFetchAllLimit = 10000
	fetchAllPageSize     = 500
)

// store is the consumer interface for recipes (ISP).
//
//nolint:interfacebloat // recipe repo needs hash + index + search operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// fullScanner is implemented by stores that list a whole index cheaper in one
// call than page by page (Valkey's SCAN-based match-all).
type fullScanner interface {
	ScanAll(ctx context.Context, index string, limit int, fields []string) (*db.SearchResult, error)
}

// Options tunes key layout and lookup bounds.
type Options struct {
	KeyPrefix     string
	LookupLimit   int // max hits per keyword lookup
	FetchAllLimit int // max recipes loaded by a full scan
}

// Repo implements usecase/recipe.Repository and usecase/search.Corpus.
type Repo struct {
	store store
	opts  Options
}

// New creates a recipe repository.
func New(s store, opts Options) *Repo {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = domain.KeyPrefix
	}
	if opts.LookupLimit <= 0 {
		opts.LookupLimit = DefaultLookupLimit
	}
	if opts.FetchAllLimit <= 0 {
		opts.FetchAllLimit = DefaultFetchAllLimit
	}
	return &Repo{store: s, opts: opts}
}

// Upsert creates or replaces a recipe. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, rec *domrecipe.Recipe) (bool, error) {
	key := r.recipeKey(rec.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, recipeToHash(rec)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns a recipe by ID.
func (r *Repo) Get(ctx context.Context, id string) (domrecipe.Recipe, error) {
	key := r.recipeKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrecipe.Recipe{}, domain.ErrRecipeNotFound
		}
		return domrecipe.Recipe{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return recipeFromHash(id, m), nil
}

// Delete removes a recipe.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.recipeKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrRecipeNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// List returns recipes with cursor-based pagination via FT.SEARCH.
// The cursor is the offset of the next page; an empty next cursor means the listing is exhausted.
func (r *Repo) List(ctx context.Context, cursor string, limit int) ([]domrecipe.Recipe, string, error) {
	if limit <= 0 {
		limit = 20
	}

	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return nil, "", fmt.Errorf("%w: invalid cursor %q", domain.ErrInvalidQuery, cursor)
		}
		offset = parsed
	}

	result, err := r.store.SearchList(ctx, r.indexName(), db.MatchAll, offset, limit+1, returnFields)
	if err != nil {
		return nil, "", fmt.Errorf("search list: %w", err)
	}
	if result == nil || result.Total == 0 {
		return nil, "", nil
	}

	recipes := r.toRecipes(result.Entries)
	var next string
	if len(recipes) > limit {
		recipes = recipes[:limit]
		next = strconv.Itoa(offset + limit)
	}
	return recipes, next, nil
}

// Count returns the number of indexed recipes.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), db.MatchAll)
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

// LookupByAnyVariant returns recipes whose keywords contain at least one of variants.
func (r *Repo) LookupByAnyVariant(ctx context.Context, variants []string) ([]domrecipe.Recipe, error) {
	query := db.TagQuery(fieldKeywords, variants...)
	if query == "" {
		return nil, nil
	}

	result, err := r.store.SearchList(ctx, r.indexName(), query, 0, r.opts.LookupLimit, returnFields)
	if err != nil {
		return nil, fmt.Errorf("keyword lookup %v: %w", variants, err)
	}
	if result == nil {
		return nil, nil
	}
	return r.toRecipes(result.Entries), nil
}

// FetchAll pages through the whole index, stopping at FetchAllLimit recipes.
func (r *Repo) FetchAll(ctx context.Context) ([]domrecipe.Recipe, error) {
	if fs, ok := r.store.(fullScanner); ok {
		result, err := fs.ScanAll(ctx, r.indexName(), r.opts.FetchAllLimit, returnFields)
		if err != nil {
			return nil, fmt.Errorf("fetch all: %w", err)
		}
		if result == nil {
			return nil, nil
		}
		return r.toRecipes(result.Entries), nil
	}

	var all []domrecipe.Recipe
	for offset := 0; offset < r.opts.FetchAllLimit; {
		size := min(fetchAllPageSize, r.opts.FetchAllLimit-offset)
		result, err := r.store.SearchList(ctx, r.indexName(), db.MatchAll, offset, size, returnFields)
		if err != nil {
			return nil, fmt.Errorf("fetch all at offset %d: %w", offset, err)
		}
		if result == nil || len(result.Entries) == 0 {
			break
		}
		all = append(all, r.toRecipes(result.Entries)...)
		offset += len(result.Entries)
		if offset >= result.Total {
			break
		}
	}
	return all, nil
}

func (r *Repo) toRecipes(entries []db.SearchEntry) []domrecipe.Recipe {
	out := make([]domrecipe.Recipe, 0, len(entries))
	for _, e := range entries {
		out = append(out, recipeFromHash(r.extractID(e.Key), e.Fields))
	}
	return out
}

func (r *Repo) recipePrefix() string {
	return r.opts.KeyPrefix + "recipe:"
}

func (r *Repo) recipeKey(id string) string {
	return r.recipePrefix() + id
}

func (r *Repo) indexName() string {
	return r.opts.KeyPrefix + "recipe:idx"
}

func (r *Repo) extractID(key string) string {
	return strings.TrimPrefix(key, r.recipePrefix())
}
