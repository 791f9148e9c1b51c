package connectivity

import (
	"coinbit-sync/internal/infrastructure/config"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProbeServer(t *testing.T, status *atomic.Int32, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(int(status.Load()))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPChecker_IsOnline(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "204 es online", status: http.StatusNoContent, want: true},
		{name: "200 es online", status: http.StatusOK, want: true},
		{name: "captive portal 302", status: http.StatusFound, want: false},
		{name: "503 offline", status: http.StatusServiceUnavailable, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var status, hits atomic.Int32
			status.Store(int32(tt.status))
			srv := newProbeServer(t, &status, &hits)

			checker := NewHTTPChecker(config.ConnectivityConfig{
				ProbeURL: srv.URL,
				Timeout:  time.Second,
				Attempts: 1,
			})
			// no seguir redirects para ver el 302 tal cual
			checker.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			}

			assert.Equal(t, tt.want, checker.IsOnline(context.Background()))
		})
	}
}

func TestHTTPChecker_CachesResult(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusNoContent)
	srv := newProbeServer(t, &status, &hits)

	checker := NewHTTPChecker(config.ConnectivityConfig{
		ProbeURL: srv.URL,
		Timeout:  time.Second,
		CacheTTL: time.Minute,
		Attempts: 1,
	})

	require.True(t, checker.IsOnline(context.Background()))
	status.Store(http.StatusServiceUnavailable)
	assert.True(t, checker.IsOnline(context.Background()), "resultado cacheado")
	assert.Equal(t, int32(1), hits.Load())

	assert.False(t, checker.Check(context.Background()), "Check ignora el cache")
}

func TestHTTPChecker_CancelledCallerDoesNotCache(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusNoContent)
	srv := newProbeServer(t, &status, &hits)

	checker := NewHTTPChecker(config.ConnectivityConfig{
		ProbeURL: srv.URL,
		Timeout:  time.Second,
		CacheTTL: 5 * time.Second,
		Attempts: 1,
	})

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, checker.IsOnline(cancelled))
	assert.True(t, checker.IsOnline(context.Background()), "la red sigue arriba")
}

func TestHTTPChecker_RetriesBeforeGivingUp(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusServiceUnavailable)
	srv := newProbeServer(t, &status, &hits)

	checker := NewHTTPChecker(config.ConnectivityConfig{
		ProbeURL: srv.URL,
		Timeout:  time.Second,
		Attempts: 2,
	})

	assert.False(t, checker.IsOnline(context.Background()))
	assert.Equal(t, int32(2), hits.Load())
}

func TestHTTPChecker_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	checker := NewHTTPChecker(config.ConnectivityConfig{ProbeURL: url, Timeout: 500 * time.Millisecond, Attempts: 1})
	assert.False(t, checker.IsOnline(context.Background()))
}

type toggleChecker struct {
	mu     sync.Mutex
	online bool
}

func (c *toggleChecker) IsOnline(context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *toggleChecker) set(v bool) {
	c.mu.Lock()
	c.online = v
	c.mu.Unlock()
}

func TestMonitor_ReportsTransitionsOnly(t *testing.T) {
	checker := &toggleChecker{online: true}
	monitor := NewMonitor(checker, time.Hour)

	var seen []Status
	monitor.OnChange(func(s Status) { seen = append(seen, s) })

	ctx := context.Background()
	assert.Equal(t, StatusUnknown, monitor.Status())

	monitor.Poll(ctx)
	monitor.Poll(ctx)
	checker.set(false)
	monitor.Poll(ctx)
	checker.set(true)
	monitor.Poll(ctx)

	assert.Equal(t, []Status{StatusAvailable, StatusLost, StatusAvailable}, seen)
	assert.Equal(t, StatusAvailable, monitor.Status())
}

func TestMonitor_RunStopsWithContext(t *testing.T) {
	monitor := NewMonitor(Static(false), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		monitor.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run no termino al cancelar el contexto")
	}
	assert.Equal(t, StatusLost, monitor.Status())
}
