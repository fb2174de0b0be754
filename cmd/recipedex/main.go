package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/config"
	"github.com/kailas-cloud/recipedex/internal/db"
	dbRedis "github.com/kailas-cloud/recipedex/internal/db/redis"
	dbValkey "github.com/kailas-cloud/recipedex/internal/db/valkey"
	logpkg "github.com/kailas-cloud/recipedex/internal/logger"
	"github.com/kailas-cloud/recipedex/internal/metrics"
	reciperepo "github.com/kailas-cloud/recipedex/internal/repository/recipe"
	chiTransport "github.com/kailas-cloud/recipedex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	recipeuc "github.com/kailas-cloud/recipedex/internal/usecase/recipe"
	searchuc "github.com/kailas-cloud/recipedex/internal/usecase/search"
	"github.com/kailas-cloud/recipedex/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recipedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := openStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.Register()

	recipeRepo := reciperepo.New(store, reciperepo.Options{
		KeyPrefix:     cfg.Storage.KeyPrefix,
		LookupLimit:   cfg.Search.LookupLimit,
		FetchAllLimit: cfg.Search.FetchAllLimit,
	})

	// A missing index only degrades search to full scans, so failure here is not fatal.
	created, err := recipeRepo.EnsureIndex(ctx)
	if err != nil {
		logger.Warn("Recipe index unavailable, search will use full scans", zap.Error(err))
	} else if created {
		logger.Info("Created recipe index")
	}

	recipeSvc := recipeuc.New(recipeRepo).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	searchSvc := searchuc.New(recipeRepo, searchuc.Config{
		SimilarityThreshold:   cfg.Search.SimilarityThreshold,
		MaxCorrectionDistance: *cfg.Search.MaxCorrectionDistance,
		LookupConcurrency:     cfg.Search.LookupConcurrency,
	}, logger).WithRecorder(metrics.NewSearchRecorder())
	healthSvc := healthuc.New(store, recipeRepo)

	server := chiTransport.NewServer(recipeSvc, searchSvc, healthSvc, logger).
		WithSearchPaging(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys: cfg.Auth.APIKeys,
		Logger:  logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the database store for the configured driver.
func openStore(cfg config.DatabaseConfig) (db.Store, error) {
	dbCfg := dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	}
	switch cfg.Driver {
	case "valkey":
		s, err := dbValkey.NewStore(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("valkey store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
