package connectivity

import (
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/internal/infrastructure/metrics"
	"context"
	"sync"
	"time"
)

// Status is the observed connectivity state
type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusAvailable Status = "available"
	StatusLost      Status = "lost"
)

// Monitor polls a checker and reports Available/Lost transitions
type Monitor struct {
	checker  interfaces.ConnectivityChecker
	interval time.Duration

	mu       sync.RWMutex
	status   Status
	onChange []func(Status)
}

func NewMonitor(checker interfaces.ConnectivityChecker, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
		status:   StatusUnknown,
	}
}

// OnChange registers a callback invoked on every transition. Register before Run
func (m *Monitor) OnChange(fn func(Status)) {
	m.mu.Lock()
	m.onChange = append(m.onChange, fn)
	m.mu.Unlock()
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Run polls until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	m.Poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll checks once and returns the resulting status
func (m *Monitor) Poll(ctx context.Context) Status {
	next := StatusLost
	if m.checker.IsOnline(ctx) {
		next = StatusAvailable
	}
	metrics.UpdateConnectivity(next == StatusAvailable)

	m.mu.Lock()
	prev := m.status
	m.status = next
	callbacks := append([]func(Status){}, m.onChange...)
	m.mu.Unlock()

	if prev == next {
		return next
	}

	fields := logging.Fields{"previous": string(prev), "status": string(next)}
	if next == StatusAvailable {
		logging.Info(ctx, "Connectivity available", fields)
	} else {
		logging.Warn(ctx, "Connectivity lost", fields)
	}

	for _, fn := range callbacks {
		fn(next)
	}
	return next
}
