package middleware

import (
	"coinbit-sync/internal/infrastructure/logging"
	"net/http"
	"strings"
)

// Patrones comunes de sondeo/ataque; solo se loguean, no se bloquean
var suspiciousPatterns = []string{
	"../",
	"<script",
	"select ",
	"union ",
	"drop ",
	"exec(",
	"eval(",
	"wp-admin",
}

const maxRequestBody = 1 << 20

// LoggingMiddleware complementa RequestTracingMiddleware con detalle de debug
// y avisos sobre requests sospechosas
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		logging.HTTP().RequestReceived(ctx, r.Method, r.URL.Path, r.UserAgent(), getRemoteIP(r))

		logging.Debug(ctx, "Processing HTTP request", logging.Fields{
			"headers":        extractImportantHeaders(r),
			"query":          r.URL.RawQuery,
			"content_length": r.ContentLength,
		})

		if reason := suspiciousReason(r); reason != "" {
			logging.Warn(ctx, "Suspicious request detected", logging.Fields{
				logging.FieldHTTPRemoteIP: getRemoteIP(r),
				logging.FieldHTTPPath:     r.URL.Path,
				logging.FieldReason:       reason,
			})
		}

		next.ServeHTTP(w, r)
	})
}

// extractImportantHeaders extracts relevant headers for logging
func extractImportantHeaders(r *http.Request) map[string]string {
	headers := make(map[string]string)

	// Sin Authorization ni cookies
	importantHeaders := []string{
		"Content-Type",
		"Accept",
		"Accept-Encoding",
		"Cache-Control",
		"X-Forwarded-For",
		"X-Real-IP",
	}

	for _, header := range importantHeaders {
		if value := r.Header.Get(header); value != "" {
			headers[header] = value
		}
	}

	return headers
}

// suspiciousReason devuelve "" si la request parece normal
func suspiciousReason(r *http.Request) string {
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)

	for _, pattern := range suspiciousPatterns {
		if strings.Contains(path, pattern) || strings.Contains(query, pattern) {
			return "pattern:" + strings.TrimSpace(pattern)
		}
	}

	if r.ContentLength > maxRequestBody {
		return "oversized_body"
	}

	return ""
}
