// ABOUTME: Prometheus instrumentation for chart rendering and HTTP requests.
// ABOUTME: Each Recorder owns its registry so tests stay isolated.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "healthboard"

// Recorder collects dashboard metrics.
type Recorder struct {
	registry      *prometheus.Registry
	renders       *prometheus.CounterVec
	renderSeconds *prometheus.HistogramVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	requests      *prometheus.CounterVec
	tableRows     prometheus.Gauge
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_renders_total",
			Help:      "Charts rendered, by chart and format.",
		}, []string{"chart", "format"}),
		renderSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chart_render_seconds",
			Help:      "Time spent rendering a chart.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"chart"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Rendered charts served from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Rendered charts not found in the cache.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
		tableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Rows in the loaded health table.",
		}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.renders,
		r.renderSeconds,
		r.cacheHits,
		r.cacheMisses,
		r.requests,
		r.tableRows,
	)
	return r
}

// ObserveRender records one render of chart in format that took d.
func (r *Recorder) ObserveRender(chart, format string, d time.Duration) {
	r.renders.WithLabelValues(chart, format).Inc()
	r.renderSeconds.WithLabelValues(chart).Observe(d.Seconds())
}

// CacheHit records a cache hit.
func (r *Recorder) CacheHit() { r.cacheHits.Inc() }

// CacheMiss records a cache miss.
func (r *Recorder) CacheMiss() { r.cacheMisses.Inc() }

// ObserveRequest records a served request.
func (r *Recorder) ObserveRequest(route string, code int) {
	r.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// SetTableRows records the size of the loaded table.
func (r *Recorder) SetTableRows(n int) {
	r.tableRows.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
