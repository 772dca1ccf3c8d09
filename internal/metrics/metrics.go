// Package metrics exposes Prometheus collectors for classification and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "genre_classifier"

// Metrics holds every collector on its own registry so tests and multiple
// servers in one process never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	classifications  *prometheus.CounterVec
	classifyDuration prometheus.Histogram
	textCharacters   prometheus.Histogram
	rejected         *prometheus.CounterVec
	evaluated        *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a registry with the runtime collectors and all classifier metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Texts classified, by resulting genre and request source.",
		}, []string{"genre", "source"}),
		classifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Time spent running the classification pipeline.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		textCharacters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "text_characters",
			Help:      "Filtered character count of classified texts.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 12),
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_total",
			Help:      "Classification requests rejected before running the pipeline.",
		}, []string{"reason"}),
		evaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluated_total",
			Help:      "Labelled texts evaluated, by expected genre and outcome.",
		}, []string{"expected", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.classifications,
		m.classifyDuration,
		m.textCharacters,
		m.rejected,
		m.evaluated,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveClassification records one completed classification
func (m *Metrics) ObserveClassification(genre, source string, characters int, elapsed time.Duration) {
	m.classifications.WithLabelValues(genre, source).Inc()
	m.classifyDuration.Observe(elapsed.Seconds())
	m.textCharacters.Observe(float64(characters))
}

// ObserveRejection records a request refused before classification
func (m *Metrics) ObserveRejection(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// ObserveEvaluation records whether a labelled text was classified as expected
func (m *Metrics) ObserveEvaluation(expected string, correct bool) {
	outcome := "wrong"
	if correct {
		outcome = "correct"
	}
	m.evaluated.WithLabelValues(expected, outcome).Inc()
}

// ObserveHTTPRequest records one served HTTP request
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
