// Command recipedex-loader bulk-imports recipes from Parquet files into
// Valkey/Redis through the recipedex SDK. It resumes from a cursor file,
// upserts with a worker pool and exposes Prometheus metrics.
//
// Usage:
//
//	recipedex-loader -data-dir /data/recipes -workers 8
//
// Every *.parquet file in -data-dir is read in name order. Required columns:
// id, title. Optional: type, region.
//
// Env vars:
//
//	DB_DRIVER   - valkey (default) or redis
//	DB_ADDR     - database address (default: localhost:6379)
//	DB_PASSWORD - database password
//	KEY_PREFIX  - storage key prefix (default: recipedex:)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/recipedex/internal/logger"
	recipedex "github.com/kailas-cloud/recipedex/pkg/sdk"
)

type config struct {
	dataDir        string
	maxRows        int
	workers        int
	batchSize      int
	metricsPort    string
	cursorInterval int
	reset          bool
	logLevel       string
}

func main() {
	cfg := parseFlags()

	logger, err := logpkg.NewLogger(env("ENV", "local"), cfg.logLevel)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		cancel()
		logger.Fatal("Load failed", zap.Error(err))
	}
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.dataDir, "data-dir", "/data", "directory with parquet files and the cursor")
	flag.IntVar(&cfg.maxRows, "max-rows", 0, "max rows to load (0=unlimited)")
	flag.IntVar(&cfg.workers, "workers", 8, "number of parallel upsert workers")
	flag.IntVar(&cfg.batchSize, "batch-size", 100, "rows per worker batch")
	flag.StringVar(&cfg.metricsPort, "metrics-port", "9090", "Prometheus metrics port (empty disables)")
	flag.IntVar(&cfg.cursorInterval, "cursor-interval", 10000, "save cursor every N rows")
	flag.BoolVar(&cfg.reset, "reset", false, "reset cursor and start from scratch")
	flag.StringVar(&cfg.logLevel, "log-level", "", "debug, info, warn, error")
	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	start := time.Now()

	reg := prometheus.NewRegistry()
	metrics := newLoaderMetrics(reg)
	if cfg.metricsPort != "" {
		metricsSrv := serveMetrics(cfg.metricsPort, reg, logger)
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = metricsSrv.Shutdown(shutCtx)
		}()
	}

	cursor, err := newCursorTracker(cfg.dataDir, cfg.cursorInterval, logger)
	if err != nil {
		return fmt.Errorf("cursor: %w", err)
	}
	if cfg.reset {
		cursor.Reset()
		logger.Info("Cursor reset, starting from scratch")
	}
	if cursor.Get().Done {
		logger.Info("Load already complete, use -reset to reload")
		return nil
	}

	reader, err := newParquetReader(cfg.dataDir, logger)
	if err != nil {
		return err
	}

	client, err := connect(ctx, reg)
	if err != nil {
		return err
	}
	defer client.Close()

	ing := &ingester{
		recipes:   client.Recipes(),
		workers:   max(cfg.workers, 1),
		batchSize: max(cfg.batchSize, 1),
		metrics:   metrics,
		cursor:    cursor,
		logger:    logger,
	}

	result, err := ing.Run(ctx, reader, cfg.maxRows)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if ctx.Err() != nil {
		logger.Info("Interrupted, progress saved", zap.Int64("processed", result.Processed()))
		return nil
	}

	report(ctx, client, result, start, logger)
	cursor.Done()
	return nil
}

func connect(ctx context.Context, reg prometheus.Registerer) (*recipedex.Client, error) {
	addr := env("DB_ADDR", "localhost:6379")
	password := os.Getenv("DB_PASSWORD")

	opts := []recipedex.Option{
		recipedex.WithPrometheus(reg),
		recipedex.WithKeyPrefix(env("KEY_PREFIX", "recipedex:")),
	}
	switch driver := env("DB_DRIVER", "valkey"); driver {
	case "valkey":
		opts = append(opts, recipedex.WithValkey(addr, password))
	case "redis":
		opts = append(opts, recipedex.WithRedis(addr, password))
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}

	client, err := recipedex.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("recipedex connect: %w", err)
	}
	return client, nil
}

func report(ctx context.Context, client *recipedex.Client, result ingestResult, start time.Time, logger *zap.Logger) {
	count, err := client.Recipes().Count(ctx)
	if err != nil {
		logger.Warn("Count failed", zap.Error(err))
	}
	elapsed := time.Since(start)

	logger.Info("Load complete",
		zap.Duration("elapsed", elapsed.Round(time.Second)),
		zap.Int64("created", result.Created),
		zap.Int64("updated", result.Updated),
		zap.Int64("failed", result.Failed),
		zap.Float64("rows_per_sec", float64(result.Processed())/elapsed.Seconds()),
		zap.Int("stored", count),
	)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
