package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/outcome"
	"github.com/kailas-cloud/recipedex/internal/domain/search/query"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	recipeuc "github.com/kailas-cloud/recipedex/internal/usecase/recipe"
	searchuc "github.com/kailas-cloud/recipedex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the recipe API.
type Server struct {
	recipes       *recipeuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler

	searchDefaultLimit int
	searchMaxLimit     int
}

// NewServer creates an HTTP API server.
func NewServer(
	recipes *recipeuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		recipes:            recipes,
		search:             search,
		health:             health,
		logger:             logger,
		searchDefaultLimit: query.DefaultLimit,
		searchMaxLimit:     query.MaxLimit,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRecipeNotFound, http.StatusNotFound, ErrorCodeRecipeNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidRecipe, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(context.Canceled, http.StatusServiceUnavailable, ErrorCodeUnavailable),
		sentinelHandler(context.DeadlineExceeded, http.StatusServiceUnavailable, ErrorCodeUnavailable),
	}
	return s
}

// WithSearchPaging overrides the search page size defaults. Non-positive values are ignored.
func (s *Server) WithSearchPaging(defaultLimit, maxLimit int) *Server {
	if maxLimit > 0 && maxLimit <= query.MaxLimit {
		s.searchMaxLimit = maxLimit
	}
	if defaultLimit > 0 {
		s.searchDefaultLimit = min(defaultLimit, s.searchMaxLimit)
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chirouter.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1/recipes", func(r chirouter.Router) {
		r.Get("/", s.ListRecipes)
		r.Get("/search", s.SearchRecipes)
		r.Put("/{id}", s.UpsertRecipe)
		r.Get("/{id}", s.GetRecipe)
		r.Delete("/{id}", s.DeleteRecipe)
	})
}

// SearchRecipes handles GET /api/v1/recipes/search.
func (s *Server) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	page, err := intParam(params.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "page must be an integer")
		return
	}
	limit, err := intParam(params.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "limit must be an integer")
		return
	}
	if limit == 0 {
		limit = s.searchDefaultLimit
	}
	if limit > s.searchMaxLimit {
		limit = s.searchMaxLimit
	}

	q, err := query.New(params.Get("q"), params.Get("type"), params.Get("region"), page, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	out, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse(&q, &out))
}

// UpsertRecipe handles PUT /api/v1/recipes/{id}.
func (s *Server) UpsertRecipe(w http.ResponseWriter, r *http.Request) {
	var req UpsertRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, err := domrecipe.New(chirouter.URLParam(r, "id"), req.Title, req.Type, req.Region)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	created, err := s.recipes.Upsert(r.Context(), &rec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, recipeResponse(&rec))
}

// GetRecipe handles GET /api/v1/recipes/{id}.
func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recipes.Get(r.Context(), chirouter.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipeResponse(&rec))
}

// DeleteRecipe handles DELETE /api/v1/recipes/{id}.
func (s *Server) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.recipes.Delete(r.Context(), chirouter.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRecipes handles GET /api/v1/recipes.
func (s *Server) ListRecipes(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "limit must be an integer")
		return
	}

	recs, next, err := s.recipes.List(r.Context(), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]RecipeResponse, len(recs))
	for i := range recs {
		items[i] = recipeResponse(&recs[i])
	}

	resp := RecipeListResponse{Items: items, HasMore: next != ""}
	if next != "" {
		resp.NextCursor = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRecipeNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidRecipe,
		domain.ErrInvalidQuery,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "request cancelled"
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// intParam parses an optional integer query parameter ("" = 0).
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse int %q: %w", v, err)
	}
	return n, nil
}

func recipeResponse(rec *domrecipe.Recipe) RecipeResponse {
	keywords := rec.Keywords()
	if keywords == nil {
		keywords = []string{}
	}
	return RecipeResponse{
		ID:       rec.ID(),
		Title:    rec.Title(),
		Type:     rec.Type(),
		Region:   rec.Region(),
		Keywords: keywords,
	}
}

func searchResponse(q *query.Query, out *outcome.Outcome) SearchResponse {
	hits := out.Hits()
	items := make([]SearchResultItem, len(hits))
	for i := range hits {
		rec := hits[i].Recipe()
		items[i] = SearchResultItem{
			ID:     rec.ID(),
			Title:  rec.Title(),
			Type:   rec.Type(),
			Region: rec.Region(),
			Score:  hits[i].Score(),
		}
	}

	var warnings []string
	for _, err := range out.Errors() {
		warnings = append(warnings, lookupWarning(err))
	}

	return SearchResponse{
		Items:       items,
		Total:       out.Total(),
		Page:        q.Page(),
		Limit:       q.Limit(),
		Status:      string(out.Status()),
		Warnings:    warnings,
		Suggestions: out.Suggestions(),
	}
}

// lookupWarning describes a failed corpus call without leaking backend details.
func lookupWarning(err error) string {
	var le *searchuc.LookupError
	if !errors.As(err, &le) {
		return "lookup failed"
	}
	if le.Token != "" {
		return fmt.Sprintf("%s failed for %q", le.Op, le.Token)
	}
	return le.Op + " failed"
}
