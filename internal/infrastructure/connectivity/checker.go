// Package connectivity answers "are we online right now" with a validated
// HTTP probe, the service-side equivalent of a validated internet capability.
package connectivity

import (
	"coinbit-sync/internal/infrastructure/config"
	"coinbit-sync/internal/infrastructure/logging"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
)

var errProbeFailed = errors.New("connectivity probe failed")

// HTTPChecker probes a URL that answers 2xx (typically 204) when the internet is reachable
type HTTPChecker struct {
	probeURL   string
	httpClient *http.Client
	attempts   uint
	cacheTTL   time.Duration

	mu        sync.Mutex
	lastCheck time.Time
	lastState bool
}

func NewHTTPChecker(cfg config.ConnectivityConfig) *HTTPChecker {
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return &HTTPChecker{
		probeURL:   cfg.ProbeURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		attempts:   uint(attempts),
		cacheTTL:   cfg.CacheTTL,
	}
}

// IsOnline devuelve el ultimo resultado si esta dentro de cacheTTL
func (c *HTTPChecker) IsOnline(ctx context.Context) bool {
	c.mu.Lock()
	if c.cacheTTL > 0 && !c.lastCheck.IsZero() && time.Since(c.lastCheck) < c.cacheTTL {
		state := c.lastState
		c.mu.Unlock()
		return state
	}
	c.mu.Unlock()

	return c.Check(ctx)
}

// Check always runs the probe and refreshes the cached state, unless ctx
// ended first
func (c *HTTPChecker) Check(ctx context.Context) bool {
	err := retry.Do(
		func() error { return c.probe(ctx) },
		retry.Attempts(c.attempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)

	// un caller cancelado no dice nada de la red; no se guarda
	if ctx.Err() != nil {
		return false
	}

	online := err == nil
	if !online {
		logging.Debug(ctx, "Connectivity probe failed", logging.Fields{
			"probe_url": c.probeURL,
			"error":     err.Error(),
		})
	}

	c.mu.Lock()
	c.lastCheck = time.Now()
	c.lastState = online
	c.mu.Unlock()

	return online
}

func (c *HTTPChecker) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.probeURL, nil)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("build probe request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errProbeFailed, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", errProbeFailed, resp.StatusCode)
	}
	return nil
}

// Static is a fixed answer, used with connectivity.assume_online and in tests
type Static bool

func (s Static) IsOnline(context.Context) bool { return bool(s) }
