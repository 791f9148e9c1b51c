package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/health", "/health"},
		{"/ready/", "/ready"},
		{"/swagger/index.html", "/swagger"},
		{"/api/v1/stream", "/api/v1/stream"},
		{"/api/v1/coins", "/api/v1/coins"},
		{"/api/v1/coins/search", "/api/v1/coins/search"},
		{"/api/v1/coins/favorites", "/api/v1/coins/favorites"},
		{"/api/v1/coins/bitcoin", "/api/v1/coins/{id}"},
		{"/api/v1/coins/bitcoin/chart", "/api/v1/coins/{id}/chart"},
		{"/api/v1/coins/bitcoin/favorite", "/api/v1/coins/{id}/favorite"},
		{"/api/v1/cache", "/api/v1/cache"},
		{"/api/v1/other", "/api/*"},
		{"/wp-admin", "/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}

func TestHTTPMetricsMiddleware_PassesThrough(t *testing.T) {
	handler := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/coins/bitcoin", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestResponseWriterMetrics_HijackUnsupported(t *testing.T) {
	rw := &responseWriterMetrics{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rw.Hijack()
	assert.Error(t, err)
}
