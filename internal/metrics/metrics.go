// Package metrics provides Prometheus observability metrics for the
// meeting router. Metrics live on a dedicated registry so the /metrics
// endpoint never exposes default Go collectors by accident.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// AssignRequestsTotal counts assignment resolutions by mode.
var AssignRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "router",
	Name:      "assign_requests_total",
	Help:      "Total agent assignment resolutions by operating mode",
}, []string{"mode"})

// AssignDurationSeconds tracks end-to-end resolver latency.
var AssignDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "router",
	Name:      "assign_duration_seconds",
	Help:      "Time taken to resolve an assignment request",
	Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
})

// CandidatesReturned tracks how many agents each resolution offered.
var CandidatesReturned = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "router",
	Name:      "candidates_returned",
	Help:      "Number of candidate agents returned per resolution",
	Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
})

// QuotaFallbackTotal counts resolutions where every eligible agent was at
// quota and the fallback pool was served instead.
var QuotaFallbackTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "router",
	Name:      "quota_fallback_total",
	Help:      "Resolutions served from the at-quota fallback pool",
})

// IdentityCacheHits counts identity mapping reads served from cache.
var IdentityCacheHits = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "identity",
	Name:      "cache_hits_total",
	Help:      "Identity mapping reads served from the in-process cache",
})

// IdentityCacheRefreshes counts successful identity mapping rebuilds.
var IdentityCacheRefreshes = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "identity",
	Name:      "cache_refreshes_total",
	Help:      "Successful identity mapping rebuilds from the membership port",
})

// IdentityRefreshFailures counts failed identity mapping rebuilds.
// The cache degrades to the last good snapshot when this fires.
var IdentityRefreshFailures = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "identity",
	Name:      "refresh_failures_total",
	Help:      "Failed identity mapping rebuilds absorbed by serving stale data",
})

// BookingPagesFetched counts pages consumed from the booking port.
var BookingPagesFetched = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "bookings",
	Name:      "pages_fetched_total",
	Help:      "Booking list pages fetched from the scheduling platform",
})

// BookingLoadFailures counts aggregations aborted by a page-fetch error.
var BookingLoadFailures = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "bookings",
	Name:      "load_failures_total",
	Help:      "Booking load aggregations that collapsed to empty counts",
})
