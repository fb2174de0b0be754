package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/recipedex/internal/db"
)

// buildIndex describes the recipe FT index: one TAG per keyword plus the filter columns.
func buildIndex(name, prefix string) (*db.IndexDefinition, error) {
	def, err := db.NewIndex(name).
		Prefix(prefix).
		TagWithOpts(fieldKeywords, keywordSeparator, false).
		Tag(fieldType).
		Tag(fieldRegion).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build recipe index: %w", err)
	}
	return def, nil
}

// EnsureIndex creates the recipe index when it does not exist yet. Returns true if created.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	name := r.indexName()
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return false, nil
	}

	def, err := buildIndex(name, r.recipePrefix())
	if err != nil {
		return false, err
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		// another replica won the race
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", name, err)
	}
	return true, nil
}

// IndexReady returns db.ErrIndexNotFound when the recipe index is missing.
func (r *Repo) IndexReady(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if !exists {
		return db.ErrIndexNotFound
	}
	return nil
}
