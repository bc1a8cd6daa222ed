package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChartsRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "satchart", Name: "charts_rendered_total", Help: "Rendered charts."},
		[]string{"variant", "format", "status"},
	)
	RenderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "satchart", Name: "render_duration_seconds",
			Help:    "Chart render duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"variant", "format"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "satchart", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "satchart", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "satchart", Name: "cache_events_total", Help: "Cache hits/misses/sets."},
		[]string{"cache", "event"}, // event: hit|miss|set|error
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(ChartsRendered, RenderLatency, HTTPRequests, HTTPLatency, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveRender(variant, format string, err error, dur time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ChartsRendered.WithLabelValues(variant, format, status).Inc()
	RenderLatency.WithLabelValues(variant, format).Observe(dur.Seconds())
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}
