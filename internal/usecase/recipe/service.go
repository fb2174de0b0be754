package recipe

import (
	"context"
	"fmt"

	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Service handles the recipe catalog that feeds search.
type Service struct {
	repo            Repository
	defaultPageSize int
	maxPageSize     int
}

// New creates a recipe service.
func New(repo Repository) *Service {
	return &Service{
		repo:            repo,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Upsert creates or replaces a recipe. Returns true if the recipe was created, false if updated.
func (s *Service) Upsert(ctx context.Context, rec *domrecipe.Recipe) (bool, error) {
	created, err := s.repo.Upsert(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("upsert recipe: %w", err)
	}
	return created, nil
}

// Get retrieves a recipe by ID.
func (s *Service) Get(ctx context.Context, id string) (domrecipe.Recipe, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrecipe.Recipe{}, fmt.Errorf("get recipe: %w", err)
	}
	return rec, nil
}

// List returns a page of recipes and the cursor of the next page.
func (s *Service) List(ctx context.Context, cursor string, limit int) ([]domrecipe.Recipe, string, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	recipes, next, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list recipes: %w", err)
	}
	return recipes, next, nil
}

// Delete removes a recipe.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// Count returns the number of recipes in the catalog.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return n, nil
}
