// Package resolve turns a source media page URL into the best playable
// direct URL plus descriptive metadata. It normalizes the extractor's
// variable-shaped output, ranks competing formats, and serves repeated
// requests from a process-lifetime TTL cache.
package resolve

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/clipx/clipx-resolver/pkg/cache"
	"github.com/clipx/clipx-resolver/pkg/logging"
	"github.com/clipx/clipx-resolver/pkg/ytdlp"
)

var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resolver_resolutions_total",
		Help: "Total resolutions by outcome",
	}, []string{"outcome"})

	resolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "resolver_resolve_duration_seconds",
		Help:    "End-to-end resolution duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 20, 30},
	})
)

// DefaultCacheTTL is how long a successful resolution stays servable.
const DefaultCacheTTL = 5 * time.Minute

// Payload is the externally-visible resolution result. This is what
// gets cached and what gets returned.
type Payload struct {
	URL         string            `json:"url"`
	Title       *string           `json:"title"`
	Thumbnail   *string           `json:"thumbnail"`
	Duration    *float64          `json:"duration"`
	WebpageURL  string            `json:"webpage_url"`
	Ext         *string           `json:"ext"`
	HTTPHeaders map[string]string `json:"http_headers"`
}

// Service orchestrates one resolution: cache lookup, extractor
// invocation, normalization, format selection, cache store.
type Service struct {
	invoker ytdlp.Invoker
	cache   *cache.Store[Payload]
	group   singleflight.Group
	logger  zerolog.Logger
}

// NewService creates a Service. The cache is owned by the caller so
// tests can inject a fresh one; a nil store gets the default TTL.
func NewService(invoker ytdlp.Invoker, store *cache.Store[Payload]) *Service {
	if invoker == nil {
		panic("resolve: invoker cannot be nil")
	}
	if store == nil {
		store = cache.New[Payload](DefaultCacheTTL)
	}
	return &Service{
		invoker: invoker,
		cache:   store,
		logger:  logging.NewLogger("resolver"),
	}
}

// Resolve returns the cached or freshly-resolved payload for sourceURL.
// Failures carry a *Error category and are never cached, so a transient
// failure does not poison subsequent requests. Concurrent misses for
// the same URL share a single extractor invocation.
func (s *Service) Resolve(ctx context.Context, sourceURL string) (Payload, error) {
	start := time.Now()
	defer func() {
		resolveDuration.Observe(time.Since(start).Seconds())
	}()

	key := strings.TrimSpace(sourceURL)
	if err := validateSourceURL(key); err != nil {
		resolutionsTotal.WithLabelValues(string(CategoryBadRequest)).Inc()
		return Payload{}, err
	}

	if payload, ok := s.cache.Get(key); ok {
		resolutionsTotal.WithLabelValues("cache_hit").Inc()
		s.logger.Debug().
			Str("url", key).
			Bool("cache_hit", true).
			Msg("Served from cache")
		return payload, nil
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// A flight that finished while we queued may have filled the
		// cache already.
		if payload, ok := s.cache.Get(key); ok {
			return payload, nil
		}

		payload, err := s.resolveOnce(ctx, key)
		if err != nil {
			return Payload{}, err
		}

		s.cache.Put(key, payload)
		return payload, nil
	})
	if err != nil {
		category := CategoryOf(err)
		resolutionsTotal.WithLabelValues(string(category)).Inc()
		s.logger.Warn().
			Str("url", key).
			Str("category", string(category)).
			Dur("duration", time.Since(start)).
			Msg("Resolution failed")
		return Payload{}, err
	}

	resolutionsTotal.WithLabelValues("resolved").Inc()
	s.logger.Info().
		Str("url", key).
		Bool("cache_hit", false).
		Bool("shared_flight", shared).
		Dur("duration", time.Since(start)).
		Msg("Resolved")

	return v.(Payload), nil
}

// resolveOnce runs the miss path: invoke, normalize, select, assemble.
func (s *Service) resolveOnce(ctx context.Context, sourceURL string) (Payload, error) {
	doc, err := s.invoker.Invoke(ctx, sourceURL)
	if err != nil {
		return Payload{}, wrapInvokeError(err)
	}

	item, err := Normalize(doc)
	if err != nil {
		return Payload{}, err
	}

	choice, err := SelectFormat(item)
	if err != nil {
		return Payload{}, err
	}

	if choice.Format != nil {
		s.logger.Debug().
			Str("url", sourceURL).
			Str("format_id", choice.Format.FormatID).
			Int("candidates", len(item.Formats)).
			Msg("Selected format")
	}

	return buildPayload(sourceURL, item, choice), nil
}

// wrapInvokeError maps extractor failures onto resolution categories.
func wrapInvokeError(err error) error {
	if errors.Is(err, ytdlp.ErrTimeout) {
		return newError(CategoryTimeout, "extractor timed out", err)
	}
	var toolErr *ytdlp.ToolError
	if errors.As(err, &toolErr) {
		return newError(CategoryToolError, toolErr.Diagnostic, err)
	}
	return newError(CategoryToolError, "extractor invocation failed", err)
}

// buildPayload assembles the external shape from the chosen stream.
// The webpage URL falls back to the request URL when the extractor
// omits one; the chosen format's headers and container win over the
// item-level ones.
func buildPayload(requestURL string, item *Item, choice Choice) Payload {
	webpageURL := item.WebpageURL
	if webpageURL == "" {
		webpageURL = requestURL
	}

	ext := item.Ext
	headers := item.HTTPHeaders
	if choice.Format != nil {
		if choice.Format.Ext != "" {
			ext = choice.Format.Ext
		}
		if len(choice.Format.HTTPHeaders) > 0 {
			headers = choice.Format.HTTPHeaders
		}
	}
	if headers == nil {
		headers = map[string]string{}
	}

	return Payload{
		URL:         choice.URL,
		Title:       optString(item.Title),
		Thumbnail:   optString(item.Thumbnail),
		Duration:    item.Duration,
		WebpageURL:  webpageURL,
		Ext:         optString(ext),
		HTTPHeaders: headers,
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// validateSourceURL checks the key is a non-empty absolute URL.
func validateSourceURL(raw string) error {
	if raw == "" {
		return newError(CategoryBadRequest, "missing source URL", nil)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return newError(CategoryBadRequest, "source URL is not parseable", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return newError(CategoryBadRequest, "source URL must be absolute (scheme and host)", nil)
	}
	return nil
}
