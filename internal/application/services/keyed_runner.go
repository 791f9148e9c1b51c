package services

import (
	"context"
	"sync"
)

// KeyedRunner keeps at most one active delivery per key. Starting a key again
// cancels the previous context, so its late events are dropped by the flow.
type KeyedRunner struct {
	mu     sync.Mutex
	active map[string]*keyedRun
	seq    uint64
}

type keyedRun struct {
	id     uint64
	cancel context.CancelFunc
}

func NewKeyedRunner() *KeyedRunner {
	return &KeyedRunner{active: make(map[string]*keyedRun)}
}

// Start supersedes any run for key and returns its context plus a done func
// that releases the slot if it is still the current one.
func (k *KeyedRunner) Start(parent context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	k.mu.Lock()
	if prev, ok := k.active[key]; ok {
		prev.cancel()
	}
	k.seq++
	run := &keyedRun{id: k.seq, cancel: cancel}
	k.active[key] = run
	k.mu.Unlock()

	done := func() {
		k.mu.Lock()
		if cur, ok := k.active[key]; ok && cur.id == run.id {
			delete(k.active, key)
		}
		k.mu.Unlock()
		cancel()
	}
	return ctx, done
}

// Active returns the number of keys with a run in flight
func (k *KeyedRunner) Active() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.active)
}

// CancelAll cancels every run, used when the session closes
func (k *KeyedRunner) CancelAll() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for key, run := range k.active {
		run.cancel()
		delete(k.active, key)
	}
}
