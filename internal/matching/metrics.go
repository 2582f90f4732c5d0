package matching

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's prometheus instruments.
type Metrics struct {
	queriesTotal   *prometheus.CounterVec
	queryDuration  prometheus.Histogram
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	unresolved     prometheus.Counter
	indexedRecipes prometheus.Gauge
}

// NewMetrics registers the engine's instruments on the given registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fridgesearch_queries_total",
				Help: "Fridge-search queries by outcome",
			},
			[]string{"outcome"},
		),
		queryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fridgesearch_query_duration_seconds",
				Help:    "End-to-end query latency",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
		),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fridgesearch_cache_hits_total",
			Help: "Result cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fridgesearch_cache_misses_total",
			Help: "Result cache misses",
		}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fridgesearch_unresolved_tokens_total",
			Help: "Query tokens that resolved to no ingredient",
		}),
		indexedRecipes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fridgesearch_indexed_recipes",
			Help: "Recipes currently in the ingredient index",
		}),
	}

	registry.MustRegister(
		m.queriesTotal,
		m.queryDuration,
		m.cacheHits,
		m.cacheMisses,
		m.unresolved,
		m.indexedRecipes,
	)
	return m
}

// The observe helpers are nil-safe so the engine can run without metrics,
// as it does in tests.

func (m *Metrics) observeQuery(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, ErrDeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	m.queriesTotal.WithLabelValues(outcome).Inc()
	m.queryDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) observeUnresolved() {
	if m == nil {
		return
	}
	m.unresolved.Inc()
}

func (m *Metrics) setIndexedRecipes(n int) {
	if m == nil {
		return
	}
	m.indexedRecipes.Set(float64(n))
}
