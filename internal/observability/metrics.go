package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the quote engine.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	quotesTotal     *prometheus.CounterVec
	quoteDuration   *prometheus.HistogramVec
	nonConvergence  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	plansCalculated prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. A private registry lets tests call NewMetrics
// more than once.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		quotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincentiva_quotes_total",
				Help: "Total quote operations by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
		quoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincentiva_quote_duration_seconds",
				Help:    "Duration of quote operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		nonConvergence: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincentiva_solver_nonconvergence_total",
				Help: "Plans returned with a best-estimate solution because a solver did not converge.",
			},
			[]string{"solver"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincentiva_cache_hits_total",
				Help: "Total plan cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincentiva_cache_misses_total",
				Help: "Total plan cache misses.",
			},
			[]string{"cache"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincentiva_company_store_errors_total",
				Help: "Company lookups that failed for reasons other than a missing company.",
			},
			[]string{"reason"},
		),
		plansCalculated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fincentiva_plans_calculated_total",
				Help: "Payment plans computed by the solvers (cache hits excluded).",
			},
		),
	}
}

// RecordQuote records the outcome and duration of a quote operation.
func (m *Metrics) RecordQuote(operation, status string, d time.Duration) {
	m.quotesTotal.WithLabelValues(operation, status).Inc()
	m.quoteDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrNonConvergence increments the non-convergence counter for solver.
func (m *Metrics) IncrNonConvergence(solver string) {
	m.nonConvergence.WithLabelValues(solver).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrStoreError increments the company store error counter.
func (m *Metrics) IncrStoreError(reason string) {
	m.storeErrors.WithLabelValues(reason).Inc()
}

// AddPlansCalculated counts freshly computed plans.
func (m *Metrics) AddPlansCalculated(n int) {
	m.plansCalculated.Add(float64(n))
}
