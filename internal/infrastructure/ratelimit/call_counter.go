package ratelimit

import (
	"sync"
	"time"
)

// CallStatus is the counter state right after recording a call
type CallStatus struct {
	Count    int
	Limit    int
	Warning  bool // Count alcanzo el umbral de aviso
	Exceeded bool
	// PreviousWindow tiene el total de la ventana anterior cuando esta llamada la cerro
	PreviousWindow int
}

// CallCounter counts outgoing calls in fixed windows. The window restarts on the
// first call after it expires or on an explicit Reset.
type CallCounter struct {
	mu            sync.Mutex
	count         int
	warnThreshold int
	limit         int
	window        time.Duration
	windowStart   time.Time
	clock         Clock
}

func NewCallCounter(warnThreshold, limit int, window time.Duration, clock Clock) *CallCounter {
	if clock == nil {
		clock = systemClock{}
	}
	if window <= 0 {
		window = time.Minute
	}
	return &CallCounter{
		warnThreshold: warnThreshold,
		limit:         limit,
		window:        window,
		windowStart:   clock.Now(),
		clock:         clock,
	}
}

// Track records one call
func (c *CallCounter) Track() CallStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	var previous int
	now := c.clock.Now()
	if now.Sub(c.windowStart) > c.window {
		previous = c.count
		c.count = 0
		c.windowStart = now
	}

	c.count++

	return CallStatus{
		Count:          c.count,
		Limit:          c.limit,
		Warning:        c.warnThreshold > 0 && c.count >= c.warnThreshold,
		Exceeded:       c.limit > 0 && c.count > c.limit,
		PreviousWindow: previous,
	}
}

// Count returns the calls recorded in the current window
func (c *CallCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clock.Now().Sub(c.windowStart) > c.window {
		return 0
	}
	return c.count
}

func (c *CallCounter) Reset() {
	c.mu.Lock()
	c.count = 0
	c.windowStart = c.clock.Now()
	c.mu.Unlock()
}
