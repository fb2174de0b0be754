package recipedex

import (
	"context"

	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/outcome"
	"github.com/kailas-cloud/recipedex/internal/domain/search/query"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
)

// --- recipeUseCase mock ---

type mockRecipeUC struct {
	upsertFn func(ctx context.Context, rec *domrecipe.Recipe) (bool, error)
	getFn    func(ctx context.Context, id string) (domrecipe.Recipe, error)
	listFn   func(ctx context.Context, cursor string, limit int) ([]domrecipe.Recipe, string, error)
	deleteFn func(ctx context.Context, id string) error
	countFn  func(ctx context.Context) (int, error)
}

func (m *mockRecipeUC) Upsert(ctx context.Context, rec *domrecipe.Recipe) (bool, error) {
	return m.upsertFn(ctx, rec)
}

func (m *mockRecipeUC) Get(ctx context.Context, id string) (domrecipe.Recipe, error) {
	return m.getFn(ctx, id)
}

func (m *mockRecipeUC) List(ctx context.Context, cursor string, limit int) ([]domrecipe.Recipe, string, error) {
	return m.listFn(ctx, cursor, limit)
}

func (m *mockRecipeUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRecipeUC) Count(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, q *query.Query) (outcome.Outcome, error)
}

func (m *mockSearchUC) Search(ctx context.Context, q *query.Query) (outcome.Outcome, error) {
	return m.searchFn(ctx, q)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(recipeSvc recipeUseCase, searchSvc searchUseCase, healthSvc healthUseCase) *Client {
	return &Client{
		recipeSvc: recipeSvc,
		searchSvc: searchSvc,
		healthSvc: healthSvc,
	}
}
