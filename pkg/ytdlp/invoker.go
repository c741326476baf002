// Package ytdlp invokes the yt-dlp CLI to extract media metadata for a
// source page URL. Each invocation spawns exactly one subprocess, bounded
// by a hard wall-clock timeout; there is no retry at this layer since
// extractor failures are typically content issues, not transient ones.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/clipx/clipx-resolver/pkg/logging"
)

var (
	invocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resolver_extractor_invocations_total",
		Help: "Total extractor invocations by outcome",
	}, []string{"outcome"})

	invocationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "resolver_extractor_duration_seconds",
		Help:    "Extractor invocation duration in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
	})
)

const (
	// DefaultTimeout bounds one extractor invocation.
	DefaultTimeout = 25 * time.Second

	// DefaultBinary is the extractor executable looked up in PATH.
	DefaultBinary = "yt-dlp"

	// maxDiagnosticLen caps the stderr excerpt carried by a ToolError.
	maxDiagnosticLen = 400

	// defaultUserAgent is sent to origin CDNs; some reject requests
	// without a browser-looking agent.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/126.0.0.0 Safari/537.36"
)

// ErrTimeout is returned when the extractor exceeds its time bound.
// The subprocess has been killed; no partial output is trusted.
var ErrTimeout = errors.New("extractor timed out")

// ToolError means the extractor ran but reported failure (content
// unavailable, geo-blocked, unsupported site, malformed output, ...).
type ToolError struct {
	// ExitCode is the subprocess exit code, or -1 when unknown.
	ExitCode int

	// Diagnostic is a stderr excerpt, never longer than 400 characters.
	Diagnostic string

	Err error
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("extractor failed (exit %d): %s", e.ExitCode, e.Diagnostic)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// Invoker runs one metadata extraction for a source URL.
type Invoker interface {
	Invoke(ctx context.Context, sourceURL string) (*Document, error)
}

// Config holds extractor configuration.
type Config struct {
	// Binary is the yt-dlp executable path (default: "yt-dlp" in PATH).
	Binary string

	// Timeout is the wall-clock bound per invocation.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		Binary:  DefaultBinary,
		Timeout: DefaultTimeout,
	}
}

// CLI is the subprocess-backed Invoker.
type CLI struct {
	config Config
	logger zerolog.Logger
}

// NewCLI creates a CLI invoker, filling zero config fields with defaults.
func NewCLI(cfg Config) *CLI {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &CLI{
		config: cfg,
		logger: logging.NewLogger("extractor"),
	}
}

// Invoke runs yt-dlp against sourceURL and parses its JSON document.
// It returns ErrTimeout when the time bound is exceeded and *ToolError
// when the tool exits non-zero or emits unparseable output.
func (c *CLI) Invoke(ctx context.Context, sourceURL string) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	args := []string{
		"--dump-single-json",
		"--no-warnings",
		"--quiet",
		"--user-agent", defaultUserAgent,
		"--add-headers", "Accept:*/*",
		sourceURL,
	}

	cmd := exec.CommandContext(ctx, c.config.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grace period for the kill to land before Wait gives up; guarantees
	// the child is reaped even if it ignores the signal briefly.
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	invocationDuration.Observe(elapsed.Seconds())

	if ctx.Err() == context.DeadlineExceeded {
		invocationsTotal.WithLabelValues("timeout").Inc()
		c.logger.Warn().
			Str("url", sourceURL).
			Dur("duration", elapsed).
			Msg("Extractor timed out")
		return nil, ErrTimeout
	}

	if runErr != nil {
		invocationsTotal.WithLabelValues("tool_error").Inc()
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		diag := truncate(strings.TrimSpace(stderr.String()))
		if diag == "" {
			diag = truncate(runErr.Error())
		}
		c.logger.Warn().
			Str("url", sourceURL).
			Int("exit_code", exitCode).
			Dur("duration", elapsed).
			Msg("Extractor failed")
		return nil, &ToolError{ExitCode: exitCode, Diagnostic: diag, Err: runErr}
	}

	var doc Document
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		invocationsTotal.WithLabelValues("tool_error").Inc()
		return nil, &ToolError{
			ExitCode:   0,
			Diagnostic: truncate("invalid extractor output: " + err.Error()),
			Err:        err,
		}
	}

	invocationsTotal.WithLabelValues("ok").Inc()
	c.logger.Debug().
		Str("url", sourceURL).
		Dur("duration", elapsed).
		Int("formats", len(doc.Formats)).
		Int("entries", len(doc.Entries)).
		Msg("Extraction complete")

	return &doc, nil
}

// truncate caps s at 400 characters, marking the cut with an ellipsis.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDiagnosticLen {
		return s
	}
	return string(runes[:maxDiagnosticLen-1]) + "…"
}
