package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rss_gen"

// Metrics holds the Prometheus collectors for the feed pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	requestTotal    *prometheus.CounterVec
	requestDuration prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	responses       *prometheus.CounterVec
	fetchFailures   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of feed requests by response code",
			},
			[]string{"code"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of feed requests",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total cache hits",
			},
		),
		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total cache misses",
			},
		),
		responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_responses_total",
				Help:      "Model responses by classification",
			},
			[]string{"kind"},
		),
		fetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_failures_total",
				Help:      "Failed page fetches by reason",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(m.requestTotal, m.requestDuration, m.cacheHits, m.cacheMisses, m.responses, m.fetchFailures)
	return m
}

// Handler serves the registered collectors, or nil for a nil *Metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return nil
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records a finished feed request
func (m *Metrics) ObserveRequest(code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	m.requestDuration.Observe(d.Seconds())
}

// CacheHit records a cache hit
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss records a cache miss
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// Classified records the classification of a model response
func (m *Metrics) Classified(kind core.ResponseKind) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(kind.String()).Inc()
}

// FetchFailed records a failed fetch
func (m *Metrics) FetchFailed(reason string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(reason).Inc()
}
