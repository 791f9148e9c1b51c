package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrWaitExceeded is returned by Wait when no token frees up within the allowed wait
var ErrWaitExceeded = errors.New("rate limit: wait exceeded")

// Clock abstrae el tiempo para poder testear el refill
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// TokenBucket implements a token bucket rate limiter that adds refillTokens
// every refillPeriod up to capacity
type TokenBucket struct {
	mu           sync.Mutex
	capacity     int
	tokens       int
	refillTokens int
	refillPeriod time.Duration
	lastRefill   time.Time
	clock        Clock
}

// NewTokenBucket creates a bucket refilled refillRate tokens per second
func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	return NewTokenBucketWithPeriod(capacity, refillRate, time.Second, nil)
}

// NewTokenBucketWithPeriod creates a full bucket. A nil clock uses time.Now
func NewTokenBucketWithPeriod(capacity, refillTokens int, refillPeriod time.Duration, clock Clock) *TokenBucket {
	if clock == nil {
		clock = systemClock{}
	}
	if refillPeriod <= 0 {
		refillPeriod = time.Second
	}
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillTokens: refillTokens,
		refillPeriod: refillPeriod,
		lastRefill:   clock.Now(),
		clock:        clock,
	}
}

// Allow consumes a token if one is available
func (tb *TokenBucket) Allow() bool {
	return tb.AllowN(1)
}

// AllowN checks if N tokens are available and consumes them if so
func (tb *TokenBucket) AllowN(n int) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= n {
		tb.tokens -= n
		return true
	}

	return false
}

// Wait blocks until a token is consumed, ctx is done or maxWait elapses.
// maxWait <= 0 means no bound other than ctx.
func (tb *TokenBucket) Wait(ctx context.Context, maxWait time.Duration) error {
	var deadline <-chan time.Time
	if maxWait > 0 {
		timer := time.NewTimer(maxWait)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		delay, ok := tb.reserve()
		if ok {
			return nil
		}

		retry := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			retry.Stop()
			return ctx.Err()
		case <-deadline:
			retry.Stop()
			return ErrWaitExceeded
		case <-retry.C:
		}
	}
}

// reserve takes a token or reports how long until the next refill
func (tb *TokenBucket) reserve() (time.Duration, bool) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens > 0 {
		tb.tokens--
		return 0, true
	}

	next := tb.refillPeriod - tb.clock.Now().Sub(tb.lastRefill)
	if next <= 0 {
		next = time.Millisecond
	}
	return next, false
}

// Tokens returns the current number of available tokens
func (tb *TokenBucket) Tokens() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	return tb.tokens
}

// refill adds whole periods elapsed since lastRefill. Must be called with lock held
func (tb *TokenBucket) refill() {
	now := tb.clock.Now()
	elapsed := now.Sub(tb.lastRefill)
	if elapsed < tb.refillPeriod {
		return
	}

	periods := int(elapsed / tb.refillPeriod)
	tb.tokens += periods * tb.refillTokens
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}

	// conserva el resto para no perder fracciones de periodo
	tb.lastRefill = tb.lastRefill.Add(time.Duration(periods) * tb.refillPeriod)
}

// RateLimiterCollection manages one token bucket per client
type RateLimiterCollection struct {
	mu              sync.RWMutex
	buckets         map[string]*TokenBucket
	capacity        int
	refillRate      int
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

// NewRateLimiterCollection creates a new collection of rate limiters
func NewRateLimiterCollection(capacity, refillRate int) *RateLimiterCollection {
	return &RateLimiterCollection{
		buckets:         make(map[string]*TokenBucket),
		capacity:        capacity,
		refillRate:      refillRate,
		lastCleanup:     time.Now(),
		cleanupInterval: 10 * time.Minute,
	}
}

// Allow checks if a request from the given client is allowed
func (rlc *RateLimiterCollection) Allow(clientID string) bool {
	return rlc.getBucket(clientID).Allow()
}

// Tokens returns available tokens for the given client
func (rlc *RateLimiterCollection) Tokens(clientID string) int {
	return rlc.getBucket(clientID).Tokens()
}

func (rlc *RateLimiterCollection) getBucket(clientID string) *TokenBucket {
	rlc.mu.RLock()
	bucket, exists := rlc.buckets[clientID]
	rlc.mu.RUnlock()

	if exists {
		return bucket
	}

	rlc.mu.Lock()
	defer rlc.mu.Unlock()

	// Double-check: otra goroutine pudo crearlo
	if bucket, exists := rlc.buckets[clientID]; exists {
		return bucket
	}

	bucket = NewTokenBucket(rlc.capacity, rlc.refillRate)
	rlc.buckets[clientID] = bucket

	rlc.maybeCleanup()

	return bucket
}

// maybeCleanup removes idle full buckets. Must be called with write lock held
func (rlc *RateLimiterCollection) maybeCleanup() {
	now := time.Now()
	if now.Sub(rlc.lastCleanup) < rlc.cleanupInterval {
		return
	}

	cutoff := now.Add(-30 * time.Minute)
	for clientID, bucket := range rlc.buckets {
		bucket.mu.Lock()
		idle := bucket.tokens == bucket.capacity && bucket.lastRefill.Before(cutoff)
		bucket.mu.Unlock()
		if idle {
			delete(rlc.buckets, clientID)
		}
	}

	rlc.lastCleanup = now
}

// Stats returns statistics about the rate limiter collection
func (rlc *RateLimiterCollection) Stats() map[string]interface{} {
	rlc.mu.RLock()
	defer rlc.mu.RUnlock()

	return map[string]interface{}{
		"total_clients": len(rlc.buckets),
		"capacity":      rlc.capacity,
		"refill_rate":   rlc.refillRate,
	}
}
