package cache

import (
	"coinbit-sync/internal/domain/entities"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rank(n int) *int { return &n }

func TestMemoryStore_GetCoinsOrder(t *testing.T) {
	tests := []struct {
		name  string
		input []entities.CoinSummary
		want  []string
	}{
		{
			name:  "vacio",
			input: nil,
			want:  []string{},
		},
		{
			name: "por rank ascendente",
			input: []entities.CoinSummary{
				{ID: "solana", MarketCapRank: rank(5)},
				{ID: "bitcoin", MarketCapRank: rank(1)},
				{ID: "ethereum", MarketCapRank: rank(2)},
			},
			want: []string{"bitcoin", "ethereum", "solana"},
		},
		{
			name: "sin rank al final",
			input: []entities.CoinSummary{
				{ID: "zzz"},
				{ID: "aaa"},
				{ID: "bitcoin", MarketCapRank: rank(1)},
			},
			want: []string{"bitcoin", "aaa", "zzz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			require.NoError(t, store.PutCoins(context.Background(), tt.input))

			coins, err := store.GetCoins(context.Background())
			require.NoError(t, err)

			ids := make([]string, 0, len(coins))
			for _, c := range coins {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetCoin(ctx, "bitcoin")
	assert.ErrorIs(t, err, entities.ErrNotFound)
	_, err = store.GetDetail(ctx, "bitcoin")
	assert.ErrorIs(t, err, entities.ErrNotFound)
	_, err = store.GetChart(ctx, "bitcoin_7")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestMemoryStore_FavoriteOverlay(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.PutCoins(ctx, []entities.CoinSummary{{ID: "bitcoin", MarketCapRank: rank(1)}}))
	require.NoError(t, store.PutDetail(ctx, &entities.CoinDetail{ID: "bitcoin"}))
	require.NoError(t, store.SetFavorite(ctx, "bitcoin", true))

	coin, err := store.GetCoin(ctx, "bitcoin")
	require.NoError(t, err)
	assert.True(t, coin.IsFavorite)

	detail, err := store.GetDetail(ctx, "bitcoin")
	require.NoError(t, err)
	assert.True(t, detail.IsFavorite)

	// sobreescribir el listado no toca el set
	require.NoError(t, store.PutCoins(ctx, []entities.CoinSummary{{ID: "bitcoin", MarketCapRank: rank(1), CurrentPrice: 1}}))
	coin, err = store.GetCoin(ctx, "bitcoin")
	require.NoError(t, err)
	assert.True(t, coin.IsFavorite)
	assert.Equal(t, 1.0, coin.CurrentPrice)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	series := &entities.ChartSeries{CoinID: "bitcoin", Days: 7, Prices: []entities.ChartPoint{{Timestamp: 1, Value: 10}}}
	require.NoError(t, store.PutChart(ctx, series.Key(), series))
	series.Prices[0].Value = 99

	got, err := store.GetChart(ctx, "bitcoin_7")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Prices[0].Value)

	got.Prices[0].Value = 42
	again, _ := store.GetChart(ctx, "bitcoin_7")
	assert.Equal(t, 10.0, again.Prices[0].Value)
}

func TestMemoryStore_PruneBefore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cutoff := old.Add(time.Hour)

	require.NoError(t, store.PutCoins(ctx, []entities.CoinSummary{
		{ID: "bitcoin", CachedAt: old},
		{ID: "dogecoin", CachedAt: old},
		{ID: "ethereum", CachedAt: cutoff.Add(time.Minute)},
	}))
	require.NoError(t, store.PutDetail(ctx, &entities.CoinDetail{ID: "dogecoin", CachedAt: old}))
	require.NoError(t, store.PutChart(ctx, "dogecoin_1", &entities.ChartSeries{CoinID: "dogecoin", Days: 1, CachedAt: old}))
	require.NoError(t, store.SetFavorite(ctx, "bitcoin", true))

	require.NoError(t, store.PruneBefore(ctx, cutoff))

	coins, details, charts := store.Size()
	assert.Equal(t, 2, coins)
	assert.Equal(t, 0, details)
	assert.Equal(t, 0, charts)

	_, err := store.GetCoin(ctx, "bitcoin")
	assert.NoError(t, err, "favorito sobrevive la poda")
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.PutCoins(ctx, []entities.CoinSummary{{ID: "bitcoin"}}))
	require.NoError(t, store.SetFavorite(ctx, "bitcoin", true))
	require.NoError(t, store.Clear(ctx))

	coins, _, _ := store.Size()
	assert.Equal(t, 0, coins)
	ids, err := store.FavoriteIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemoryStore_Concurrency(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("coin-%d", i)
			_ = store.PutCoins(ctx, []entities.CoinSummary{{ID: id, MarketCapRank: rank(i + 1)}})
			_ = store.SetFavorite(ctx, id, i%2 == 0)
			_, _ = store.GetCoins(ctx)
			_, _ = store.FavoriteIDs(ctx)
		}(i)
	}
	wg.Wait()

	coins, err := store.GetCoins(ctx)
	require.NoError(t, err)
	assert.Len(t, coins, 20)
	ids, _ := store.FavoriteIDs(ctx)
	assert.Len(t, ids, 10)
}
