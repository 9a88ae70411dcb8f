// Package metrics exposes Prometheus collectors for the proposal web service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "proposals"

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeSkipped  = "skipped"
	OutcomeFallback = "fallback"
)

// Metrics groups the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	submissions    *prometheus.CounterVec
	uploads        *prometheus.CounterVec
	rateFetches    *prometheus.CounterVec
	reviews        *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// New registers the service collectors together with the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Form backend submissions by outcome.",
		}, []string{"outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Media host uploads by slot and outcome.",
		}, []string{"slot", "outcome"}),
		rateFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_rate_fetches_total",
			Help:      "Exchange rate lookups by outcome.",
		}, []string{"outcome"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Review requests by outcome.",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Form sessions currently held in memory.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions,
		m.uploads,
		m.rateFetches,
		m.reviews,
		m.activeSessions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Submission counts one submission attempt.
func (m *Metrics) Submission(err error) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome(err)).Inc()
}

// Upload counts uploaded files for a slot.
func (m *Metrics) Upload(slot, result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.uploads.WithLabelValues(slot, result).Add(float64(n))
}

// RateFetch counts one exchange rate lookup.
func (m *Metrics) RateFetch(err error) {
	if m == nil {
		return
	}
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeFallback
	}
	m.rateFetches.WithLabelValues(result).Inc()
}

// Review counts one review request.
func (m *Metrics) Review(err error) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(outcome(err)).Inc()
}

// SetActiveSessions records the current session count.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
