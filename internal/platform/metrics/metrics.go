package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exchange outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeDeclined = "declined"
	OutcomeError    = "error"
)

// Metrics holds every Prometheus collector the service emits.
type Metrics struct {
	ExchangesTotal            *prometheus.CounterVec
	ExchangeAmountTotal       *prometheus.CounterVec
	ExchangeDuration          *prometheus.HistogramVec
	CompensationFailuresTotal prometheus.Counter

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers all collectors with reg and returns the wrapper. Tests pass
// a fresh prometheus.NewRegistry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ExchangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_attempts_total",
				Help: "Number of exchange attempts by outcome",
			},
			[]string{"outcome", "base_currency", "counter_currency"},
		),
		ExchangeAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_base_amount_total",
				Help: "Total base amount exchanged, by base currency",
			},
			[]string{"base_currency"},
		),
		ExchangeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "exchange_duration_seconds",
				Help:    "End to end duration of exchange attempts",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"outcome"},
		),
		CompensationFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "exchange_compensation_failures_total",
				Help: "Number of failed compensating transfers; every increment needs operator attention",
			},
		),
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Cache hits by key scope",
			},
			[]string{"scope"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Cache misses by key scope",
			},
			[]string{"scope"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RecordExchange records one finished exchange attempt.
func (m *Metrics) RecordExchange(outcome, baseCurrency, counterCurrency string, baseAmount, seconds float64) {
	m.ExchangesTotal.WithLabelValues(outcome, baseCurrency, counterCurrency).Inc()
	m.ExchangeDuration.WithLabelValues(outcome).Observe(seconds)
	if outcome == OutcomeOK {
		m.ExchangeAmountTotal.WithLabelValues(baseCurrency).Add(baseAmount)
	}
}

// RecordCompensationFailure records a failed compensating transfer.
func (m *Metrics) RecordCompensationFailure() {
	m.CompensationFailuresTotal.Inc()
}

// RecordCacheHit records a cache hit for a key scope.
func (m *Metrics) RecordCacheHit(scope string) {
	m.CacheHitsTotal.WithLabelValues(scope).Inc()
}

// RecordCacheMiss records a cache miss for a key scope.
func (m *Metrics) RecordCacheMiss(scope string) {
	m.CacheMissesTotal.WithLabelValues(scope).Inc()
}

// RecordRequest records one finished HTTP request.
func (m *Metrics) RecordRequest(method, path, status string, seconds float64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(seconds)
}
