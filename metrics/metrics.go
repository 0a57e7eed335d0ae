// Package metrics provides Prometheus collectors for HTTP traffic, the
// suggestion cache and the store connection. Everything registers with the
// default registry at package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	SuggestionCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestion_cache_hits_total",
			Help: "Autocomplete requests served from the suggestion cache",
		},
	)

	SuggestionCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestion_cache_misses_total",
			Help: "Autocomplete requests that had to query the store",
		},
	)

	StoreUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_up",
			Help: "Whether the medicines store is reachable (1) or not (0)",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(SuggestionCacheHits)
	prometheus.MustRegister(SuggestionCacheMisses)
	prometheus.MustRegister(StoreUp)
}
