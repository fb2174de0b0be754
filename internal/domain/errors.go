package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrRecipeNotFound signals a missing recipe.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrInvalidRecipe signals a recipe that failed validation.
	ErrInvalidRecipe = errors.New("invalid recipe")
	// ErrInvalidQuery signals a search query that failed validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrLookup signals a failed corpus read during search (indexed lookup or full scan).
	ErrLookup = errors.New("corpus lookup failed")
)

// KeyPrefix is the default storage key prefix.
const KeyPrefix = "recipedex:"
