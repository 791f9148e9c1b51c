package prefs

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu        sync.RWMutex
	lastFetch time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LastListFetch(ctx context.Context) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastFetch, nil
}

func (m *MemoryStore) SetLastListFetch(ctx context.Context, ts time.Time) error {
	m.mu.Lock()
	m.lastFetch = ts
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	return m.SetLastListFetch(ctx, time.Time{})
}

func (m *MemoryStore) Close() error { return nil }
