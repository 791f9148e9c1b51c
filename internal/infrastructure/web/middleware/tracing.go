package middleware

import (
	"bufio"
	"coinbit-sync/internal/infrastructure/logging"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

const headerRequestID = "X-Request-ID"

// ResponseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Hijack es necesario para el upgrade de /api/v1/stream
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusSwitchingProtocols
	}
	return hijacker.Hijack()
}

// RequestTracingMiddleware adds request tracing and structured logging
func RequestTracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reusar el id del cliente si viene uno razonable
		requestID := strings.TrimSpace(r.Header.Get(headerRequestID))
		if requestID == "" || len(requestID) > 128 {
			requestID = logging.GenerateRequestID()
		}

		startTime := time.Now()
		ctx := logging.WithRequestID(r.Context(), requestID)
		ctx = logging.WithStartTime(ctx, startTime)

		w.Header().Set(headerRequestID, requestID)

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     0,
		}

		method := r.Method
		path := r.URL.Path
		userAgent := r.Header.Get("User-Agent")
		remoteIP := getRemoteIP(r)

		logging.Debug(ctx, "HTTP request started", logging.Fields{
			logging.FieldHTTPMethod:    method,
			logging.FieldHTTPPath:      path,
			logging.FieldHTTPUserAgent: userAgent,
			logging.FieldHTTPRemoteIP:  remoteIP,
			"content_length":           r.ContentLength,
		})

		r = r.WithContext(ctx)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode == 0 {
			wrapped.statusCode = http.StatusOK
		}
		durationMs := float64(time.Since(startTime).Nanoseconds()) / 1e6

		logging.HTTPRequest(ctx, method, path, wrapped.statusCode, logging.Fields{
			logging.FieldDuration: durationMs,
			"response_size":       wrapped.written,
		})
	})
}

// getRemoteIP extracts the real client IP from request
func getRemoteIP(r *http.Request) string {
	// X-Forwarded-For puede traer una cadena de proxies; el primero es el cliente
	if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		first, _, _ := strings.Cut(xForwardedFor, ",")
		return strings.TrimSpace(first)
	}

	if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
		return xRealIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
