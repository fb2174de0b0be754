package recipedex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/recipedex/internal/db"
	dbRedis "github.com/kailas-cloud/recipedex/internal/db/redis"
	dbValkey "github.com/kailas-cloud/recipedex/internal/db/valkey"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/outcome"
	"github.com/kailas-cloud/recipedex/internal/domain/search/query"
	reciperepo "github.com/kailas-cloud/recipedex/internal/repository/recipe"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	recipeuc "github.com/kailas-cloud/recipedex/internal/usecase/recipe"
	searchuc "github.com/kailas-cloud/recipedex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type recipeUseCase interface {
	Upsert(ctx context.Context, rec *domrecipe.Recipe) (bool, error)
	Get(ctx context.Context, id string) (domrecipe.Recipe, error)
	List(ctx context.Context, cursor string, limit int) ([]domrecipe.Recipe, string, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type searchUseCase interface {
	Search(ctx context.Context, q *query.Query) (outcome.Outcome, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the recipedex SDK entry point.
type Client struct {
	store     db.Store
	recipeSvc recipeUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, connects to the database and ensures the recipe index exists.
// The provided context is used for the readiness check and index creation.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("recipedex: database address required (use WithValkey or WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("recipedex: database not ready: %w", err)
	}

	c, repo := wireClient(store, cfg, obs)
	if _, err := repo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("recipedex: ensure index: %w", err)
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	dbCfg := dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	}
	switch cfg.driver {
	case "valkey":
		s, err := dbValkey.NewStore(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("recipedex: create valkey store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("recipedex: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("recipedex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, *reciperepo.Repo) {
	repo := reciperepo.New(store, reciperepo.Options{
		KeyPrefix:     cfg.keyPrefix,
		LookupLimit:   cfg.lookupLimit,
		FetchAllLimit: cfg.fetchAllLimit,
	})

	searchSvc := searchuc.New(repo, searchuc.Config{
		SimilarityThreshold:   cfg.similarityThreshold,
		MaxCorrectionDistance: cfg.maxCorrectionDistance,
		LookupConcurrency:     cfg.lookupConcurrency,
	}, nil)

	return &Client{
		store:     store,
		recipeSvc: recipeuc.New(repo),
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, repo),
		obs:       obs,
	}, repo
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Recipes returns the recipe management service.
func (c *Client) Recipes() *RecipeService {
	return &RecipeService{svc: c.recipeSvc, obs: c.obs}
}
