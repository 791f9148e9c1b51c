package services

import (
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/pkg/utils"
	"context"
	"time"
)

// Pruner is the subset of the sync service the janitor drives
type Pruner interface {
	PruneBefore(ctx context.Context, ts time.Time) error
}

// Janitor poda periodicamente los registros no favoritos mas viejos que maxAge
type Janitor struct {
	pruner   Pruner
	clock    interfaces.Clock
	interval time.Duration
	maxAge   time.Duration
}

func NewJanitor(pruner Pruner, clk interfaces.Clock, interval, maxAge time.Duration) *Janitor {
	return &Janitor{pruner: pruner, clock: clk, interval: interval, maxAge: maxAge}
}

// Sweep prunes once with cutoff now - maxAge
func (j *Janitor) Sweep(ctx context.Context) error {
	cutoff := utils.CutoffBefore(j.clock.Now(), j.maxAge)
	return j.pruner.PruneBefore(ctx, cutoff)
}

// Run sweeps every interval until ctx is done
func (j *Janitor) Run(ctx context.Context) {
	logging.Info(ctx, "Cache janitor started", logging.Fields{
		"interval": j.interval.String(),
		"max_age":  j.maxAge.String(),
	})

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info(ctx, "Cache janitor stopped", nil)
			return
		case <-ticker.C:
			if err := j.Sweep(ctx); err != nil {
				logging.ErrorWithError(ctx, "Cache janitor sweep failed", err, nil)
			}
		}
	}
}
