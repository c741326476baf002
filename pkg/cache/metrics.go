package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits tracks cache hits
	Hits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_cache_hits_total",
			Help: "Total number of resolver cache hits",
		},
	)

	// Misses tracks cache misses, expired entries included
	Misses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_cache_misses_total",
			Help: "Total number of resolver cache misses",
		},
	)

	// Entries tracks the current number of cached entries
	Entries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resolver_cache_entries",
			Help: "Current number of entries in the resolver cache",
		},
	)
)
