package recipe

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/search/text"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxTitleSize is the maximum recipe title size in bytes.
const MaxTitleSize = 512

// Recipe is a searchable recipe (immutable value object).
// Keywords are the lowercase, accent-stripped title tokens used for indexed lookup.
type Recipe struct {
	id       string
	title    string
	keywords []string
	kind     string
	region   string
}

// New validates and creates a Recipe, deriving its keywords from the title.
func New(id, title, kind, region string) (Recipe, error) {
	if id == "" {
		return Recipe{}, fmt.Errorf("%w: id is required", domain.ErrInvalidRecipe)
	}
	if len(id) > 256 {
		return Recipe{}, fmt.Errorf("%w: id too long (max 256)", domain.ErrInvalidRecipe)
	}
	if !idRegex.MatchString(id) {
		return Recipe{}, fmt.Errorf("%w: id must be alphanumeric with underscores and hyphens", domain.ErrInvalidRecipe)
	}
	keywords := text.Keywords(title)
	if len(keywords) == 0 {
		return Recipe{}, fmt.Errorf("%w: title is required", domain.ErrInvalidRecipe)
	}
	if len(title) > MaxTitleSize {
		return Recipe{}, fmt.Errorf("%w: title too long (max %d bytes)", domain.ErrInvalidRecipe, MaxTitleSize)
	}

	return Recipe{id: id, title: title, keywords: keywords, kind: kind, region: region}, nil
}

// Reconstruct creates a Recipe without validation (storage hydration).
func Reconstruct(id, title string, keywords []string, kind, region string) Recipe {
	return Recipe{id: id, title: title, keywords: keywords, kind: kind, region: region}
}

// ID returns the recipe identifier.
func (r *Recipe) ID() string { return r.id }

// Title returns the display title, also the match target.
func (r *Recipe) Title() string { return r.title }

// Keywords returns the precomputed lookup tokens.
func (r *Recipe) Keywords() []string { return r.keywords }

// Type returns the recipe type (starter, dessert, ...).
func (r *Recipe) Type() string { return r.kind }

// Region returns the recipe's region of origin.
func (r *Recipe) Region() string { return r.region }
