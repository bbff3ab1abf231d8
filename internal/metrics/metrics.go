// Package metrics exposes Prometheus metrics for the thumbnail
// resolution pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for resolution terminals.
const (
	OutcomeHit      = "hit"
	OutcomeFallback = "fallback"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds all thumbnailer Prometheus metrics.
type Metrics struct {
	Resolutions          *prometheus.CounterVec
	CacheLookups         *prometheus.CounterVec
	DispatchFailures     prometheus.Counter
	DispatchesSuppressed prometheus.Counter
	ResolveDuration      prometheus.Histogram
}

// New registers and returns the thumbnailer metrics on the given
// registerer. Tests pass a fresh registry to avoid duplicate
// registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "thumbnailer_resolutions_total",
			Help: "Resolution requests by terminal outcome",
		}, []string{"outcome"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "thumbnailer_cache_lookups_total",
			Help: "Object store existence checks by result",
		}, []string{"result"}),
		DispatchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "thumbnailer_dispatch_failures_total",
			Help: "Regeneration jobs that failed to enqueue",
		}),
		DispatchesSuppressed: factory.NewCounter(prometheus.CounterOpts{
			Name: "thumbnailer_dispatches_suppressed_total",
			Help: "Regeneration dispatches collapsed by the recently-dispatched set",
		}),
		ResolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "thumbnailer_resolve_duration_seconds",
			Help:    "End-to-end resolution latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
