package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// HTTPMetricsMiddleware collects HTTP metrics for Prometheus
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		// Wrap response writer to capture metrics
		wrapped := &responseWriterMetrics{
			ResponseWriter: w,
			statusCode:     200, // Default to 200 if WriteHeader is not called
			written:        0,
		}

		// Extract normalized path (to avoid high cardinality)
		normalizedPath := normalizePath(r.URL.Path)
		method := r.Method

		// Process request
		next.ServeHTTP(wrapped, r)

		duration := time.Since(startTime).Seconds()
		statusCode := wrapped.statusCode
		RecordHTTPRequest(method, normalizedPath, statusCode, duration, wrapped.written)
	})
}

// responseWriterMetrics wraps http.ResponseWriter to capture metrics
type responseWriterMetrics struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

// WriteHeader captures the status code
func (rw *responseWriterMetrics) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size
func (rw *responseWriterMetrics) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = 200
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Hijack permite el upgrade a websocket a traves del wrapper
func (rw *responseWriterMetrics) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// normalizePath colapsa ids de monedas para evitar alta cardinalidad
func normalizePath(path string) string {
	if path == "/" {
		return "/"
	}

	path = strings.TrimSuffix(path, "/")

	switch {
	case path == "/health", path == "/ready", path == "/metrics":
		return path
	case strings.HasPrefix(path, "/swagger"):
		return "/swagger"
	case path == "/api/v1/stream":
		return path
	case path == "/api/v1/coins", path == "/api/v1/coins/search", path == "/api/v1/coins/favorites":
		return path
	case path == "/api/v1/cache", path == "/api/v1/chart/ranges":
		return path
	case strings.HasPrefix(path, "/api/v1/coins/"):
		rest := strings.TrimPrefix(path, "/api/v1/coins/")
		parts := strings.Split(rest, "/")
		if len(parts) == 1 {
			return "/api/v1/coins/{id}"
		}
		return "/api/v1/coins/{id}/" + parts[1]
	case strings.HasPrefix(path, "/api/"):
		return "/api/*"
	default:
		return "/unknown"
	}
}
