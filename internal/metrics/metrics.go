package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "rchk"

// Ingestion outcomes used as the "result" label.
const (
	ResultSuccess   = "success"
	ResultDuplicate = "duplicate"
	ResultInvalid   = "invalid"
	ResultFetch     = "fetch_error"
	ResultStorage   = "storage_error"
)

// Metrics owns its registry so tests can build as many as they like. All
// methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	ingestions     *prometheus.CounterVec
	ingestDuration prometheus.Histogram
	players        *prometheus.CounterVec
	fetchRetries   *prometheus.CounterVec
	fetchFailures  *prometheus.CounterVec
	refdataLoads   prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		ingestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Match ingestions by result",
		}, []string{"result"}),

		ingestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time spent ingesting one match, reference lookups included",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),

		players: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "player_changes_total",
			Help:      "Player rows created or renamed, and renames skipped as stale",
		}, []string{"change"}),

		fetchRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "Outbound request retries by reason",
		}, []string{"reason"}),

		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Outbound requests that gave up, by reason",
		}, []string{"reason"}),

		refdataLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refdata_loads_total",
			Help:      "Static reference data reloads",
		}),
	}

	registry.MustRegister(
		m.ingestions,
		m.ingestDuration,
		m.players,
		m.fetchRetries,
		m.fetchFailures,
		m.refdataLoads,
		collectors.NewGoCollector(),
	)

	return m
}

func (m *Metrics) ObserveIngest(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ingestions.WithLabelValues(result).Inc()
	m.ingestDuration.Observe(elapsed.Seconds())
}

// PlayerChange counts "created", "renamed" and "stale_rename".
func (m *Metrics) PlayerChange(change string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.players.WithLabelValues(change).Add(float64(n))
}

func (m *Metrics) FetchRetry(reason string) {
	if m == nil {
		return
	}
	m.fetchRetries.WithLabelValues(reason).Inc()
}

func (m *Metrics) FetchFailure(reason string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) RefdataLoaded() {
	if m == nil {
		return
	}
	m.refdataLoads.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var Module = fx.Provide(New)
