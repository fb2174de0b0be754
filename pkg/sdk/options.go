package recipedex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/search/text"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	keyPrefix             string
	similarityThreshold   float64
	maxCorrectionDistance int
	lookupConcurrency     int
	lookupLimit           int
	fetchAllLimit         int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		keyPrefix:             domain.KeyPrefix,
		maxCorrectionDistance: text.DefaultMaxCorrectionDistance,
	}
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix namespaces all keys and the index. Default: "recipedex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSimilarityThreshold sets the minimum title similarity kept by ranking.
// Default: 0.6.
func WithSimilarityThreshold(threshold float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.similarityThreshold = threshold
	})
}

// WithMaxCorrectionDistance sets the edit distance cutoff for spelling suggestions.
// Default: 2. 0 suggests only exact title words; negative restores the default.
func WithMaxCorrectionDistance(d int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxCorrectionDistance = d
	})
}

// WithLookupConcurrency bounds the number of concurrent per-word index lookups.
func WithLookupConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.lookupConcurrency = n
	})
}

// WithLookupLimits caps the hits read per indexed lookup and by a full scan.
// Defaults: 1000 and 10000.
func WithLookupLimits(lookup, fetchAll int) Option {
	return optionFunc(func(c *clientConfig) {
		c.lookupLimit = lookup
		c.fetchAllLimit = fetchAll
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
