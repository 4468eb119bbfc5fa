// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts category searches by outcome.
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnpath_searches_total",
		Help: "Category searches executed, labeled by category and outcome.",
	}, []string{"category", "outcome"})

	// SearchResults observes how many results a category search produced.
	SearchResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "learnpath_search_results",
		Help:    "Results returned per category search.",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	}, []string{"category"})

	// GenerationsTotal counts path generations by outcome
	// (generated, fallback, unavailable).
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnpath_generations_total",
		Help: "Learning path generations, labeled by outcome.",
	}, []string{"outcome"})

	// GenerationDuration observes end-to-end generation latency.
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "learnpath_generation_duration_seconds",
		Help:    "End-to-end learning path generation latency.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// CacheLookupsTotal counts result cache lookups by outcome (hit, miss).
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnpath_cache_lookups_total",
		Help: "Search result cache lookups, labeled by outcome.",
	}, []string{"outcome"})

	// RequestsTotal counts HTTP requests by route and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnpath_http_requests_total",
		Help: "HTTP requests handled, labeled by route and status.",
	}, []string{"route", "status"})
)
