package ratelimit

import (
	"coinbit-sync/internal/infrastructure/config"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func TestTokenBucket_RefillPerPeriod(t *testing.T) {
	clk := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tb := NewTokenBucketWithPeriod(3, 1, 2*time.Second, clk)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "bucket vacio")

	clk.advance(1999 * time.Millisecond)
	assert.False(t, tb.Allow(), "todavia no completa un periodo")

	clk.advance(time.Millisecond)
	assert.True(t, tb.Allow())
	assert.Equal(t, 0, tb.Tokens())

	clk.advance(time.Minute)
	assert.Equal(t, 3, tb.Tokens(), "nunca supera la capacidad")
}

func TestTokenBucket_AllowN(t *testing.T) {
	clk := &manualClock{now: time.Now()}
	tb := NewTokenBucketWithPeriod(5, 1, time.Second, clk)

	assert.True(t, tb.AllowN(4))
	assert.False(t, tb.AllowN(2))
	assert.True(t, tb.AllowN(1))
}

func TestTokenBucket_WaitGetsTokenAfterRefill(t *testing.T) {
	tb := NewTokenBucketWithPeriod(1, 1, 20*time.Millisecond, nil)
	require.True(t, tb.Allow())

	start := time.Now()
	err := tb.Wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestTokenBucket_WaitExceeded(t *testing.T) {
	tb := NewTokenBucketWithPeriod(1, 1, time.Hour, nil)
	require.True(t, tb.Allow())

	err := tb.Wait(context.Background(), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrWaitExceeded)
}

func TestTokenBucket_WaitContextCancelled(t *testing.T) {
	tb := NewTokenBucketWithPeriod(1, 1, time.Hour, nil)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tb.Wait(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallCounter_WarningAndWindowReset(t *testing.T) {
	clk := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	counter := NewCallCounter(25, 30, time.Minute, clk)

	var status CallStatus
	for i := 0; i < 24; i++ {
		status = counter.Track()
	}
	assert.Equal(t, 24, status.Count)
	assert.False(t, status.Warning)

	status = counter.Track()
	assert.True(t, status.Warning, "aviso al llegar a 25")
	assert.False(t, status.Exceeded)

	for i := 0; i < 6; i++ {
		status = counter.Track()
	}
	assert.Equal(t, 31, status.Count)
	assert.True(t, status.Exceeded)

	clk.advance(61 * time.Second)
	assert.Equal(t, 0, counter.Count())

	status = counter.Track()
	assert.Equal(t, 1, status.Count)
	assert.Equal(t, 31, status.PreviousWindow)
}

func TestCallCounter_ExplicitReset(t *testing.T) {
	counter := NewCallCounter(25, 30, time.Minute, nil)
	counter.Track()
	counter.Track()
	require.Equal(t, 2, counter.Count())

	counter.Reset()
	assert.Equal(t, 0, counter.Count())
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("bloquea al agotar tokens", func(t *testing.T) {
		mw := NewRateLimitMiddleware(config.APIRateLimitConfig{Enabled: true, Capacity: 2, RefillRate: 0})
		handler := mw.Handler(next)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/coins", nil)
			req.RemoteAddr = "10.0.0.1:5555"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("health no se limita", func(t *testing.T) {
		mw := NewRateLimitMiddleware(config.APIRateLimitConfig{Enabled: true, Capacity: 1, RefillRate: 0})
		handler := mw.Handler(next)

		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("deshabilitado", func(t *testing.T) {
		mw := NewRateLimitMiddleware(config.APIRateLimitConfig{Enabled: false})
		rec := httptest.NewRecorder()
		mw.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/coins", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, mw.Stats()["enabled"])
	})
}

func TestGetClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	assert.Equal(t, "1.2.3.4", getClientID(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	assert.Equal(t, "9.9.9.9", getClientID(req))
}
