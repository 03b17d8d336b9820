// Package metrics holds the engine's Prometheus collectors. They register on
// the default registry and are served by promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchengine_swipes_total",
			Help: "Recorded judgments by verdict and ledger outcome",
		},
		[]string{"liked", "outcome"},
	)

	MatchesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchengine_matches_created_total",
			Help: "Matches materialized from reciprocal likes",
		},
	)

	MatchConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchengine_match_conflicts_total",
			Help: "Match creations resolved as already existing",
		},
	)

	UnmatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchengine_unmatches_total",
			Help: "Matches deactivated by a participant",
		},
	)

	FeedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matchengine_feed_candidates",
			Help:    "Candidates returned per discovery feed page",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchengine_swipes_rate_limited_total",
			Help: "Swipes rejected by the per-user rate limiter",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matchengine_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
