package recipedex

// Recipe is a searchable recipe. Keywords are derived from Title on write
// and ignored on input.
type Recipe struct {
	ID       string
	Title    string
	Type     string
	Region   string
	Keywords []string
}

// Hit is a single ranked search match.
type Hit struct {
	Recipe Recipe
	Score  float64
}

// SearchStatus reports how much of the corpus a search could read.
type SearchStatus string

// Search status constants.
const (
	StatusOK      SearchStatus = "ok"
	StatusPartial SearchStatus = "partial"
	StatusFailed  SearchStatus = "failed"
)

// SearchResult is one page of ranked hits.
// Failures lists the corpus calls that failed; each matches ErrLookup under errors.Is.
type SearchResult struct {
	Hits        []Hit
	Total       int
	Status      SearchStatus
	Failures    []error
	Suggestions map[string]string // query word -> closest title word
}

// ListResult is a page of recipes in storage order.
type ListResult struct {
	Recipes    []Recipe
	NextCursor string
}
