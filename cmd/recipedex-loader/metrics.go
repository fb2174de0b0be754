package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// loaderMetrics holds the loader's Prometheus collectors.
type loaderMetrics struct {
	rowsProcessed  *prometheus.CounterVec
	rowsFailed     *prometheus.CounterVec
	batchesTotal   prometheus.Counter
	batchDuration  prometheus.Histogram
	cursorPosition prometheus.Gauge
}

func newLoaderMetrics(reg prometheus.Registerer) *loaderMetrics {
	m := &loaderMetrics{
		rowsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipedex_loader",
			Name:      "rows_processed_total",
			Help:      "Rows upserted, by result (created, updated)",
		}, []string{"result"}),

		rowsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipedex_loader",
			Name:      "rows_failed_total",
			Help:      "Rows rejected, by reason (invalid, upsert_error)",
		}, []string{"reason"}),

		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recipedex_loader",
			Name:      "batches_total",
			Help:      "Total batches processed",
		}),

		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "recipedex_loader",
			Name:      "batch_duration_seconds",
			Help:      "Batch upsert duration",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		cursorPosition: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "recipedex_loader",
			Name:      "cursor_rows_total",
			Help:      "Rows accounted for by the resume cursor",
		}),
	}

	reg.MustRegister(
		m.rowsProcessed, m.rowsFailed,
		m.batchesTotal, m.batchDuration,
		m.cursorPosition,
	)

	return m
}

// serveMetrics starts the Prometheus scrape endpoint for reg.
func serveMetrics(port string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	return srv
}
