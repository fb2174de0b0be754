package recipe

import (
	"strings"

	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/text"
)

// Hash field names of a stored recipe.
const (
	fieldTitle    = "title"
	fieldKeywords = "keywords"
	fieldType     = "type"
	fieldRegion   = "region"
)

// keywordSeparator doubles as the TAG SEPARATOR of the keywords index field.
const keywordSeparator = ","

var returnFields = []string{fieldTitle, fieldKeywords, fieldType, fieldRegion}

// recipeToHash converts a domain Recipe to a map for HSET.
func recipeToHash(rec *domrecipe.Recipe) map[string]string {
	return map[string]string{
		fieldTitle:    rec.Title(),
		fieldKeywords: strings.Join(rec.Keywords(), keywordSeparator),
		fieldType:     rec.Type(),
		fieldRegion:   rec.Region(),
	}
}

// recipeFromHash hydrates a domain Recipe from HGETALL or FT.SEARCH fields.
// Hashes written without keywords get them recomputed from the title.
func recipeFromHash(id string, m map[string]string) domrecipe.Recipe {
	title := m[fieldTitle]
	var keywords []string
	for kw := range strings.SplitSeq(m[fieldKeywords], keywordSeparator) {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		keywords = text.Keywords(title)
	}
	return domrecipe.Reconstruct(id, title, keywords, m[fieldType], m[fieldRegion])
}
