// Package metrics exposes Prometheus collectors for the ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spendlog"

// Metrics holds the collectors on a private registry. A nil *Metrics
// records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	extractions     *prometheus.CounterVec
	queries         *prometheus.CounterVec
	categorizations *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers all collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Expense extractions by outcome and keyword stage.",
		}, []string{"outcome", "stage"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Compiled spending queries by normalized intent.",
		}, []string{"action", "timeframe", "filter_kind"}),
		categorizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "categorizations_total",
			Help:      "Categories assigned to new transactions.",
		}, []string{"category"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.extractions,
		m.queries,
		m.categorizations,
		m.requestDuration,
	)
	return m
}

func (m *Metrics) ObserveExtraction(outcome, stage string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(outcome, stage).Inc()
}

func (m *Metrics) ObserveQuery(action, timeframe, filterKind string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(action, timeframe, filterKind).Inc()
}

func (m *Metrics) ObserveCategorization(category string) {
	if m == nil {
		return
	}
	m.categorizations.WithLabelValues(category).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
