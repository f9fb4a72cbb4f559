// Package metrics exposes Prometheus collectors for the newsroom API.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without a registry in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Crawler route outcomes
const (
	CrawlerHit      = "hit"
	CrawlerMiss     = "miss"
	CrawlerFallback = "fallback"
	CrawlerHuman    = "human"
)

// Metrics owns a registry and the collectors registered on it
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	crawlerRequestsTotal       *prometheus.CounterVec
	ogImageValidationsTotal    *prometheus.CounterVec
	articleWritesTotal         *prometheus.CounterVec
	slugConflictsTotal         prometheus.Counter
}

// New creates a registry with process and Go runtime collectors plus the
// application collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		),
		httpRequestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		crawlerRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "article_share_requests_total",
				Help: "Requests to the article share route, labeled by result.",
			},
			[]string{"result"},
		),
		ogImageValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "og_image_validations_total",
				Help: "Social preview image validations, labeled by tier and outcome.",
			},
			[]string{"tier", "outcome"},
		),
		articleWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "article_writes_total",
				Help: "Successful article writes, labeled by operation.",
			},
			[]string{"op"},
		),
		slugConflictsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "article_slug_conflicts_total",
				Help: "Inserts retried because the slug was taken concurrently.",
			},
		),
	}
}

// Handler returns an http.Handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest increments the HTTP request metrics
func (m *Metrics) ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveCrawler counts one share route request
func (m *Metrics) ObserveCrawler(result string) {
	if m == nil {
		return
	}
	m.crawlerRequestsTotal.WithLabelValues(result).Inc()
}

// ObserveImageValidation counts one image validation
func (m *Metrics) ObserveImageValidation(tier, outcome string) {
	if m == nil {
		return
	}
	m.ogImageValidationsTotal.WithLabelValues(tier, outcome).Inc()
}

// ObserveArticleWrite counts a create, update or delete
func (m *Metrics) ObserveArticleWrite(op string) {
	if m == nil {
		return
	}
	m.articleWritesTotal.WithLabelValues(op).Inc()
}

// ObserveSlugConflict counts a retried insert
func (m *Metrics) ObserveSlugConflict() {
	if m == nil {
		return
	}
	m.slugConflictsTotal.Inc()
}
