package services

import (
	"coinbit-sync/internal/infrastructure/clock"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
}

func (p *recordingPruner) PruneBefore(_ context.Context, ts time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, ts)
	return nil
}

func (p *recordingPruner) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

func TestJanitor_Sweep(t *testing.T) {
	pruner := &recordingPruner{}
	j := NewJanitor(pruner, clock.NewFake(testNow), time.Hour, 24*time.Hour)

	require.NoError(t, j.Sweep(context.Background()))
	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, testNow.Add(-24*time.Hour), pruner.cutoffs[0])
}

func TestJanitor_RunStopsOnCancel(t *testing.T) {
	pruner := &recordingPruner{}
	j := NewJanitor(pruner, clock.NewFake(testNow), 10*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return pruner.calls() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor no se detuvo")
	}
}

func TestJanitor_PrunesThroughCoordinator(t *testing.T) {
	f := newFixture(t, true)
	f.seedCoins(t, 2, 48*time.Hour)

	j := NewJanitor(f.svc, f.clock, time.Hour, 24*time.Hour)
	require.NoError(t, j.Sweep(context.Background()))

	coins, err := f.store.GetCoins(context.Background())
	require.NoError(t, err)
	assert.Empty(t, coins)
}
