package cache

import (
	"coinbit-sync/internal/domain/entities"
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implementa interfaces.LocalStore en memoria local.
// Se usa en tests y con store.backend=memory; no sobrevive reinicios.
type MemoryStore struct {
	mu        sync.RWMutex
	coins     map[string]entities.CoinSummary
	details   map[string]entities.CoinDetail
	charts    map[string]entities.ChartSeries
	favorites map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		coins:     make(map[string]entities.CoinSummary),
		details:   make(map[string]entities.CoinDetail),
		charts:    make(map[string]entities.ChartSeries),
		favorites: make(map[string]bool),
	}
}

// GetCoins returns every cached summary ordered by rank; an empty cache is an empty slice
func (m *MemoryStore) GetCoins(ctx context.Context) ([]entities.CoinSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coins := make([]entities.CoinSummary, 0, len(m.coins))
	for _, c := range m.coins {
		c.IsFavorite = m.favorites[c.ID]
		coins = append(coins, c)
	}
	sortByRankThenID(coins)
	return coins, nil
}

func (m *MemoryStore) PutCoins(ctx context.Context, coins []entities.CoinSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range coins {
		c.IsFavorite = false // vive en el set de favoritos
		m.coins[c.ID] = c
	}
	return nil
}

func (m *MemoryStore) GetCoin(ctx context.Context, coinID string) (*entities.CoinSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.coins[coinID]
	if !ok {
		return nil, entities.ErrNotFound
	}
	c.IsFavorite = m.favorites[coinID]
	return &c, nil
}

func (m *MemoryStore) GetDetail(ctx context.Context, coinID string) (*entities.CoinDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.details[coinID]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return d.WithFavorite(m.favorites[coinID]), nil
}

func (m *MemoryStore) PutDetail(ctx context.Context, detail *entities.CoinDetail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := *detail
	d.IsFavorite = false
	m.details[d.ID] = d
	return nil
}

func (m *MemoryStore) GetChart(ctx context.Context, key string) (*entities.ChartSeries, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.charts[key]
	if !ok {
		return nil, entities.ErrNotFound
	}
	out := copySeries(s)
	return &out, nil
}

func (m *MemoryStore) PutChart(ctx context.Context, key string, series *entities.ChartSeries) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.charts[key] = copySeries(*series)
	return nil
}

func (m *MemoryStore) IsFavorite(ctx context.Context, coinID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.favorites[coinID], nil
}

func (m *MemoryStore) SetFavorite(ctx context.Context, coinID string, favorite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if favorite {
		m.favorites[coinID] = true
	} else {
		delete(m.favorites, coinID)
	}
	return nil
}

func (m *MemoryStore) FavoriteIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.favorites))
	for id := range m.favorites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// PruneBefore elimina registros no favoritos con CachedAt anterior a ts
func (m *MemoryStore) PruneBefore(ctx context.Context, ts time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, c := range m.coins {
		if c.CachedAt.Before(ts) && !m.favorites[id] {
			delete(m.coins, id)
		}
	}
	for id, d := range m.details {
		if d.CachedAt.Before(ts) && !m.favorites[id] {
			delete(m.details, id)
		}
	}
	for key, s := range m.charts {
		if s.CachedAt.Before(ts) && !m.favorites[s.CoinID] {
			delete(m.charts, key)
		}
	}
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.coins = make(map[string]entities.CoinSummary)
	m.details = make(map[string]entities.CoinDetail)
	m.charts = make(map[string]entities.ChartSeries)
	m.favorites = make(map[string]bool)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

// Size retorna el numero de registros por coleccion (para debugging)
func (m *MemoryStore) Size() (coins, details, charts int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.coins), len(m.details), len(m.charts)
}
