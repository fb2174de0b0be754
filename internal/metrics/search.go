package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "search_requests_total",
			Help:      "Total number of recipe searches by outcome status",
		},
		[]string{"status"}, // ok / partial / failed
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recipedex",
			Name:      "search_duration_seconds",
			Help:      "Recipe search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SearchLookupFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "search_lookup_failures_total",
			Help:      "Failed corpus calls during search",
		},
		[]string{"op"}, // lookup / fetch_all
	)

	SearchFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recipedex",
			Name:      "search_fallbacks_total",
			Help:      "Searches that widened to a full corpus scan after an index miss",
		},
	)
)

var registerOnce sync.Once

// Register registers all recipedex collectors with the default registry. Call once from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
		prometheus.MustRegister(SearchRequestsTotal)
		prometheus.MustRegister(SearchDuration)
		prometheus.MustRegister(SearchLookupFailuresTotal)
		prometheus.MustRegister(SearchFallbacksTotal)
	})
}

// SearchRecorder feeds search diagnostics into the Prometheus collectors.
type SearchRecorder struct{}

// NewSearchRecorder creates a SearchRecorder.
func NewSearchRecorder() *SearchRecorder { return &SearchRecorder{} }

// ObserveSearch counts one finished search and its latency.
func (*SearchRecorder) ObserveSearch(status string, elapsed time.Duration) {
	SearchRequestsTotal.WithLabelValues(status).Inc()
	SearchDuration.Observe(elapsed.Seconds())
}

// LookupFailed counts one failed corpus call.
func (*SearchRecorder) LookupFailed(op string) {
	SearchLookupFailuresTotal.WithLabelValues(op).Inc()
}

// Fallback counts one full-scan fallback.
func (*SearchRecorder) Fallback() {
	SearchFallbacksTotal.Inc()
}
