package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/clipx/clipx-resolver/pkg/logging"
	"github.com/clipx/clipx-resolver/pkg/metrics"
	"github.com/clipx/clipx-resolver/pkg/resolve"
)

const serviceName = "clipx-resolver"

// resolver is the core the HTTP layer delegates to.
type resolver interface {
	Resolve(ctx context.Context, sourceURL string) (resolve.Payload, error)
}

// server carries the HTTP surface: routing, auth, admission control.
type server struct {
	resolver       resolver
	apiKey         string
	limiter        *rate.Limiter
	requestTimeout time.Duration
	logger         zerolog.Logger
}

func newServer(r resolver, cfg config) *server {
	return &server{
		resolver: r,
		apiKey:   cfg.APIKey,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		// Leave headroom over the extractor bound so a timeout surfaces
		// as a category, not a severed connection.
		requestTimeout: cfg.ResolveTimeout + 5*time.Second,
		logger:         logging.NewLogger("http"),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/", s.rootHandler)
	mux.HandleFunc("/resolve", s.resolveHandler)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *server) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

// resolveRequest is the /resolve request body.
type resolveRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *server) resolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method-not-allowed"})
		return
	}

	requestID := uuid.New().String()
	w.Header().Set("X-Request-ID", requestID)
	logger := s.logger.With().Str("request_id", requestID).Logger()

	if !s.limiter.Allow() {
		logger.Warn().Msg("Request rejected by rate limiter")
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate-limited"})
		return
	}

	if s.apiKey != "" && clientKey(r) != s.apiKey {
		logger.Warn().Msg("Request rejected: bad API key")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid-json"})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing-url"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	start := time.Now()
	payload, err := s.resolver.Resolve(ctx, req.URL)
	if err != nil {
		status, tag := statusForError(err)
		logger.Warn().
			Str("url", req.URL).
			Str("category", string(resolve.CategoryOf(err))).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("Resolve failed")
		writeJSON(w, status, errorResponse{Error: tag, Message: diagnosticOf(err)})
		return
	}

	logger.Info().
		Str("url", req.URL).
		Dur("duration", time.Since(start)).
		Msg("Resolve succeeded")
	writeJSON(w, http.StatusOK, payload)
}

// clientKey reads the client API key from common header spellings.
func clientKey(r *http.Request) string {
	for _, name := range []string{"x-api-key", "X-API-Key", "X-Api-Key", "x-apiKey", "x_api_key"} {
		if v := r.Header.Get(name); v != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// statusForError maps a resolution failure to an HTTP status and the
// externally-visible error tag.
func statusForError(err error) (int, string) {
	switch resolve.CategoryOf(err) {
	case resolve.CategoryBadRequest:
		return http.StatusBadRequest, "invalid-url"
	case resolve.CategoryTimeout:
		return http.StatusGatewayTimeout, "timeout"
	case resolve.CategoryEmptyResult:
		return http.StatusUnprocessableEntity, "empty-result"
	case resolve.CategoryNoPlayableFormat:
		return http.StatusUnprocessableEntity, "no-direct-url-found"
	default:
		return http.StatusInternalServerError, "extract-failed"
	}
}

// diagnosticOf extracts the short failure message for the response body.
// Only the already-truncated category message is exposed, never raw
// internal error text.
func diagnosticOf(err error) string {
	var rerr *resolve.Error
	if errors.As(err, &rerr) {
		return rerr.Message
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
