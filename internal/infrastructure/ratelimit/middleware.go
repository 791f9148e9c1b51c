package ratelimit

import (
	"coinbit-sync/internal/infrastructure/config"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/internal/infrastructure/metrics"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

const apiLimiterName = "api"

// RateLimitMiddleware limits incoming HTTP requests per client IP
type RateLimitMiddleware struct {
	limiter   *RateLimiterCollection
	skipPaths map[string]bool
	enabled   bool
}

// NewRateLimitMiddleware creates the middleware from the api_rate_limit section
func NewRateLimitMiddleware(cfg config.APIRateLimitConfig) *RateLimitMiddleware {
	// health, readiness, metrics y el stream quedan fuera del limite
	skipPaths := map[string]bool{
		"/health":        true,
		"/ready":         true,
		"/metrics":       true,
		"/api/v1/stream": true,
	}

	var limiter *RateLimiterCollection
	if cfg.Enabled {
		limiter = NewRateLimiterCollection(cfg.Capacity, cfg.RefillRate)
	}

	return &RateLimitMiddleware{
		limiter:   limiter,
		skipPaths: skipPaths,
		enabled:   cfg.Enabled,
	}
}

// Handler returns the HTTP middleware handler
func (rlm *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rlm.enabled || rlm.skipPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		clientID := getClientID(r)

		allowed := rlm.limiter.Allow(clientID)
		tokensRemaining := rlm.limiter.Tokens(clientID)

		result := "allowed"
		if !allowed {
			result = "blocked"
		}
		metrics.RecordRateLimitResult(apiLimiterName, result)

		if !allowed {
			logging.Warn(ctx, "Rate limit exceeded", logging.Fields{
				"client_id":  clientID,
				"path":       r.URL.Path,
				"method":     r.Method,
				"user_agent": r.Header.Get("User-Agent"),
			})

			writeRateLimitError(w)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(tokensRemaining))
		next.ServeHTTP(w, r)
	})
}

// getClientID extracts the client identifier used as bucket key
func getClientID(r *http.Request) string {
	if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		// puede traer varias IPs, la primera es el cliente
		parts := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(parts[0])
	}

	if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
		return xRealIP
	}

	remoteAddr := r.RemoteAddr
	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}

	return remoteAddr
}

type rateLimitError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeRateLimitError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(rateLimitError{
		Error:   "RATE_LIMIT_EXCEEDED",
		Message: "Rate limit exceeded. Please slow down your requests.",
		Code:    http.StatusTooManyRequests,
	})
}

// Stats returns rate limiting statistics
func (rlm *RateLimitMiddleware) Stats() map[string]interface{} {
	stats := map[string]interface{}{"enabled": rlm.enabled}
	if rlm.limiter != nil {
		for k, v := range rlm.limiter.Stats() {
			stats[k] = v
		}
	}
	return stats
}
