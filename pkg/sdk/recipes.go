package recipedex

import (
	"context"
	"fmt"
	"time"

	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// RecipeService manages stored recipes.
type RecipeService struct {
	svc recipeUseCase
	obs *observer
}

// Upsert creates or replaces a recipe. Returns true if it was created.
func (s *RecipeService) Upsert(ctx context.Context, r Recipe) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("recipe.upsert", start, err) }()

	rec, err := domrecipe.New(r.ID, r.Title, r.Type, r.Region)
	if err != nil {
		return false, fmt.Errorf("upsert recipe: %w", err)
	}
	created, err = s.svc.Upsert(ctx, &rec)
	if err != nil {
		return false, fmt.Errorf("upsert recipe: %w", err)
	}
	return created, nil
}

// Get returns a recipe by ID.
func (s *RecipeService) Get(ctx context.Context, id string) (_ Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observe("recipe.get", start, err) }()

	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		return Recipe{}, fmt.Errorf("get recipe: %w", err)
	}
	return recipeFromDomain(&rec), nil
}

// List returns a page of recipes. Pass the previous NextCursor to continue;
// an empty NextCursor means the listing is exhausted.
func (s *RecipeService) List(ctx context.Context, cursor string, limit int) (_ ListResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("recipe.list", start, err) }()

	recs, next, err := s.svc.List(ctx, cursor, limit)
	if err != nil {
		return ListResult{}, fmt.Errorf("list recipes: %w", err)
	}
	out := make([]Recipe, len(recs))
	for i := range recs {
		out[i] = recipeFromDomain(&recs[i])
	}
	return ListResult{Recipes: out, NextCursor: next}, nil
}

// Delete removes a recipe.
func (s *RecipeService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("recipe.delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// Count returns the number of stored recipes.
func (s *RecipeService) Count(ctx context.Context) (_ int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("recipe.count", start, err) }()

	n, err := s.svc.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return n, nil
}

func recipeFromDomain(r *domrecipe.Recipe) Recipe {
	return Recipe{
		ID:       r.ID(),
		Title:    r.Title(),
		Type:     r.Type(),
		Region:   r.Region(),
		Keywords: r.Keywords(),
	}
}
