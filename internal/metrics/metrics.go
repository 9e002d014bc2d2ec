// Package metrics exposes Prometheus collectors for the lookup pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheHitsTotal counts lookups served from the forecast cache.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_cache_hits_total",
		Help: "Number of lookups served from the forecast cache",
	})

	// CacheMissesTotal counts lookups that had to resolve upstream.
	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_cache_misses_total",
		Help: "Number of lookups that missed the forecast cache",
	})

	// UpstreamRequestsTotal counts upstream fetches by outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_upstream_requests_total",
			Help: "Upstream fetch attempts by outcome",
		},
		[]string{"outcome"},
	)

	// LookupDuration tracks end-to-end lookup latency.
	LookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_lookup_duration_seconds",
		Help:    "End-to-end lookup latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// RecentSearches tracks the current size of the recent-searches list.
	RecentSearches = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weather_recent_searches",
		Help: "Number of entries currently held in the recent-searches list",
	})
)

// Outcome labels for UpstreamRequestsTotal.
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeAuth      = "auth_error"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed"
)

// RecordUpstream increments the upstream counter for the given outcome.
func RecordUpstream(outcome string) {
	UpstreamRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveLookup records one lookup duration.
func ObserveLookup(d time.Duration) {
	LookupDuration.Observe(d.Seconds())
}

// Serve starts a dedicated metrics listener on addr. It blocks, so run it in
// its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
