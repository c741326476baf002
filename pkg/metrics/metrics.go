// Package metrics exposes the Prometheus metrics endpoint for the
// resolver. Metrics themselves are defined in their owning packages
// (cache, ytdlp, resolve) via promauto to avoid circular dependencies;
// this package documents them and serves the scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the Prometheus registry used by the resolver. All metrics
// are registered automatically via promauto in their owning packages.
var Registry = prometheus.DefaultRegisterer

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - resolver_cache_hits_total (Counter): Cache hits
//   - resolver_cache_misses_total (Counter): Cache misses, expired entries included
//   - resolver_cache_entries (Gauge): Current number of cached entries
//
// Extractor Metrics (pkg/ytdlp):
//   - resolver_extractor_invocations_total{outcome} (Counter): Invocations by outcome (ok, timeout, tool_error)
//   - resolver_extractor_duration_seconds (Histogram): Invocation duration
//
// Resolution Metrics (pkg/resolve):
//   - resolver_resolutions_total{outcome} (Counter): Resolutions by outcome
//     (cache_hit, resolved, bad_request, timeout, tool_error, empty_result, no_playable_format)
//   - resolver_resolve_duration_seconds (Histogram): End-to-end resolution duration
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(resolver_cache_hits_total[5m])) /
//   (sum(rate(resolver_cache_hits_total[5m])) + sum(rate(resolver_cache_misses_total[5m])))
//
//   # Extractor Error Rate
//   sum(rate(resolver_extractor_invocations_total{outcome!="ok"}[5m]))
//
//   # P95 Resolution Latency
//   histogram_quantile(0.95, rate(resolver_resolve_duration_seconds_bucket[5m]))
