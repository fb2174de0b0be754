package recipe

import (
	"context"

	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Repository defines the storage contract for recipes.
type Repository interface {
	Upsert(ctx context.Context, rec *domrecipe.Recipe) (created bool, err error)
	Get(ctx context.Context, id string) (domrecipe.Recipe, error)
	List(ctx context.Context, cursor string, limit int) (recipes []domrecipe.Recipe, nextCursor string, err error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
