package chi

// ErrorCode is the machine-readable error code in ErrorResponse.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeRecipeNotFound   ErrorCode = "recipe_not_found"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeUnavailable      ErrorCode = "service_unavailable"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// UpsertRecipeRequest is the body of PUT /api/v1/recipes/{id}.
type UpsertRecipeRequest struct {
	Title  string `json:"title"`
	Type   string `json:"type,omitempty"`
	Region string `json:"region,omitempty"`
}

// RecipeResponse is a stored recipe.
type RecipeResponse struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Type     string   `json:"type,omitempty"`
	Region   string   `json:"region,omitempty"`
	Keywords []string `json:"keywords"`
}

// RecipeListResponse is a cursor page of recipes.
type RecipeListResponse struct {
	Items      []RecipeResponse `json:"items"`
	HasMore    bool             `json:"has_more"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

// SearchResultItem is one ranked recipe.
type SearchResultItem struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Type   string  `json:"type,omitempty"`
	Region string  `json:"region,omitempty"`
	Score  float64 `json:"score"`
}

// SearchResponse is the body of GET /api/v1/recipes/search.
// Status is "ok", "partial" or "failed"; degraded searches still answer 200.
type SearchResponse struct {
	Items       []SearchResultItem `json:"items"`
	Total       int                `json:"total"`
	Page        int                `json:"page"`
	Limit       int                `json:"limit"`
	Status      string             `json:"status"`
	Warnings    []string           `json:"warnings,omitempty"`
	Suggestions map[string]string  `json:"suggestions,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
