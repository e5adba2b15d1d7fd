package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks cache hits by layer (memory, redis)
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marinescope_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"layer"},
	)

	// cacheMisses tracks cache misses
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marinescope_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// cacheSize tracks live entry count by layer
	cacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marinescope_cache_entries",
			Help: "Current number of live response cache entries",
		},
		[]string{"layer"},
	)

	// cacheEvictions tracks capacity evictions
	cacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marinescope_cache_evictions_total",
			Help: "Total number of least-recently-used evictions",
		},
	)

	// cacheExpirations tracks TTL expirations observed on read
	cacheExpirations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marinescope_cache_expirations_total",
			Help: "Total number of entries dropped after TTL expiry",
		},
	)

	// cacheErrors tracks second-tier operation errors
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marinescope_cache_errors_total",
			Help: "Total number of cache tier operation errors",
		},
		[]string{"operation"}, // "get", "set"
	)
)
