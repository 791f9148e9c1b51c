package services

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/infrastructure/connectivity"
	"coinbit-sync/internal/infrastructure/repositories/cache"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedDetail(t *testing.T, f *fixture, id string, age time.Duration) {
	t.Helper()
	require.NoError(t, f.store.PutDetail(context.Background(), &entities.CoinDetail{
		ID:          id,
		Name:        "Cached " + id,
		Description: "cached",
		CachedAt:    testNow.Add(-age),
	}))
}

func TestSyncCoinDetail_ValidCacheSkipsNetwork(t *testing.T) {
	f := newFixture(t, true)
	seedDetail(t, f, "bitcoin", 5*time.Minute)
	require.NoError(t, f.store.SetFavorite(context.Background(), "bitcoin", true))

	events := Collect(f.svc.SyncCoinDetail(context.Background(), "bitcoin"))

	assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess}, kinds(events))
	assert.Equal(t, entities.OriginCache, events[1].Origin)
	assert.True(t, events[1].Data.IsFavorite)
	f.remote.AssertNotCalled(t, "FetchCoinDetail", mock.Anything, mock.Anything)
}

// blockingFavorites frena IsFavorite hasta que se cierra release
type blockingFavorites struct {
	*cache.MemoryStore
	release chan struct{}
}

func (b *blockingFavorites) IsFavorite(ctx context.Context, coinID string) (bool, error) {
	<-b.release
	return b.MemoryStore.IsFavorite(ctx, coinID)
}

func TestSyncCoinDetail_LoadingBeforeFavoriteRead(t *testing.T) {
	f := newFixture(t, true)
	seedDetail(t, f, "bitcoin", time.Minute)
	require.NoError(t, f.store.SetFavorite(context.Background(), "bitcoin", true))

	store := &blockingFavorites{MemoryStore: f.store, release: make(chan struct{})}
	svc := NewCoordinator(Deps{
		Remote:       f.remote,
		Store:        store,
		Connectivity: connectivity.Static(true),
		Clock:        f.clock,
		FetchTimeout: time.Second,
	})

	out := svc.SyncCoinDetail(context.Background(), "bitcoin")

	select {
	case first := <-out:
		assert.Equal(t, entities.ResultLoading, first.Kind)
	case <-time.After(2 * time.Second):
		close(store.release)
		t.Fatal("Loading quedo detras de la lectura del favorito")
	}
	close(store.release)

	rest := Collect(out)
	require.Len(t, rest, 1)
	assert.True(t, rest[0].Data.IsFavorite)
}

func TestSyncCoinDetail_StaleCacheFetchFailure(t *testing.T) {
	f := newFixture(t, true)
	seedDetail(t, f, "ethereum", 12*time.Minute)
	f.remote.On("FetchCoinDetail", mock.Anything, "ethereum").
		Return(nil, entities.NewNetworkError(entities.NetworkTimeout, "/coins/ethereum", 0, context.DeadlineExceeded)).
		Once()

	events := Collect(f.svc.SyncCoinDetail(context.Background(), "ethereum"))

	require.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess}, kinds(events))
	assert.Equal(t, entities.OriginStaleCache, events[1].Origin)
	assert.Equal(t, "Cached ethereum", events[1].Data.Name)
	f.remote.AssertExpectations(t)
}

func TestSyncCoinDetail_FetchPersists(t *testing.T) {
	f := newFixture(t, true)
	seedDetail(t, f, "ethereum", 10*time.Minute) // edad == ventana cuenta como vencido
	require.NoError(t, f.store.SetFavorite(context.Background(), "ethereum", true))

	f.clock.Advance(time.Second)
	f.remote.On("FetchCoinDetail", mock.Anything, "ethereum").
		Return(&entities.CoinDetail{ID: "ethereum", Name: "Ethereum"}, nil).Once()

	events := Collect(f.svc.SyncCoinDetail(context.Background(), "ethereum"))

	require.Len(t, events, 2)
	assert.Equal(t, entities.OriginNetwork, events[1].Origin)
	assert.Equal(t, "Ethereum", events[1].Data.Name)
	assert.True(t, events[1].Data.IsFavorite)

	cached, err := f.store.GetDetail(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.Equal(t, "Ethereum", cached.Name)
	assert.Equal(t, testNow.Add(time.Second), cached.CachedAt)
}

func TestSyncCoinDetail_Offline(t *testing.T) {
	t.Run("sin cache", func(t *testing.T) {
		f := newFixture(t, false)
		events := Collect(f.svc.SyncCoinDetail(context.Background(), "bitcoin"))

		assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultError}, kinds(events))
		assert.Equal(t, MsgNoConnection, events[1].Message)
	})

	t.Run("cache vencido", func(t *testing.T) {
		f := newFixture(t, false)
		seedDetail(t, f, "bitcoin", 3*time.Hour)
		events := Collect(f.svc.SyncCoinDetail(context.Background(), "bitcoin"))

		require.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess}, kinds(events))
		assert.Equal(t, entities.OriginStaleCache, events[1].Origin)
	})

	t.Run("cache fresco", func(t *testing.T) {
		f := newFixture(t, false)
		seedDetail(t, f, "bitcoin", time.Minute)
		events := Collect(f.svc.SyncCoinDetail(context.Background(), "bitcoin"))

		require.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess}, kinds(events))
		assert.Equal(t, entities.OriginCache, events[1].Origin)
	})
}

func TestSyncCoinDetail_ErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", entities.NewNetworkError(entities.NetworkTimeout, "/coins/x", 0, context.DeadlineExceeded), MsgTimeout},
		{"server", entities.NewNetworkError(entities.NetworkHTTPStatus, "/coins/x", 503, errors.New("unavailable")), "Server error (HTTP 503)"},
		{"not found", entities.NewNetworkError(entities.NetworkHTTPStatus, "/coins/x", 404, errors.New("missing")), "Server error (HTTP 404)"},
		{"malformed", entities.NewNetworkError(entities.NetworkMalformed, "/coins/x", 200, errors.New("bad json")), MsgMalformed},
		{"transport", entities.NewNetworkError(entities.NetworkTransport, "/coins/x", 0, errors.New("reset")), MsgNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.remote.On("FetchCoinDetail", mock.Anything, "x").Return(nil, tt.err).Once()

			events := Collect(f.svc.SyncCoinDetail(context.Background(), "x"))

			require.Len(t, events, 2)
			assert.Equal(t, entities.ResultError, events[1].Kind)
			assert.Equal(t, tt.want, events[1].Message)
			assert.NotContains(t, events[1].Message, tt.err.Error())
		})
	}
}

func TestSyncCoinDetail_InvalidID(t *testing.T) {
	f := newFixture(t, true)
	events := Collect(f.svc.SyncCoinDetail(context.Background(), "  "))

	assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultError}, kinds(events))
	assert.Equal(t, MsgInvalidCoinID, events[1].Message)
}

func TestSyncChart_RangesAreDistinct(t *testing.T) {
	f := newFixture(t, true)
	week := &entities.ChartSeries{Prices: []entities.ChartPoint{{Timestamp: 1, Value: 7}}}
	month := &entities.ChartSeries{Prices: []entities.ChartPoint{{Timestamp: 1, Value: 30}, {Timestamp: 2, Value: 31}}}
	f.remote.On("FetchMarketChart", mock.Anything, "bitcoin", 7).Return(week, nil).Once()
	f.remote.On("FetchMarketChart", mock.Anything, "bitcoin", 30).Return(month, nil).Once()

	Collect(f.svc.SyncChart(context.Background(), "bitcoin", 7))
	Collect(f.svc.SyncChart(context.Background(), "bitcoin", 30))

	got7, err := f.store.GetChart(context.Background(), "bitcoin_7")
	require.NoError(t, err)
	got30, err := f.store.GetChart(context.Background(), "bitcoin_30")
	require.NoError(t, err)

	assert.Equal(t, 7, got7.Days)
	assert.Len(t, got7.Prices, 1)
	assert.Equal(t, 30, got30.Days)
	assert.Len(t, got30.Prices, 2)

	// ambos validos: no hay segunda llamada
	events := Collect(f.svc.SyncChart(context.Background(), "bitcoin", 7))
	assert.Equal(t, entities.OriginCache, events[1].Origin)
	f.remote.AssertExpectations(t)
}

func TestSyncChart_Window(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.store.PutChart(context.Background(), "bitcoin_1", &entities.ChartSeries{
		CoinID: "bitcoin", Days: 1, CachedAt: testNow.Add(-29 * time.Minute),
	}))

	events := Collect(f.svc.SyncChart(context.Background(), "bitcoin", 1))
	assert.Equal(t, entities.OriginCache, events[1].Origin)

	f.clock.Advance(time.Minute)
	events = Collect(f.svc.SyncChart(context.Background(), "bitcoin", 1))
	assert.Equal(t, entities.OriginStaleCache, events[1].Origin)
}

func TestSyncChart_InvalidInput(t *testing.T) {
	f := newFixture(t, true)

	events := Collect(f.svc.SyncChart(context.Background(), "bitcoin", 0))
	assert.Equal(t, MsgInvalidDays, events[1].Message)

	events = Collect(f.svc.SyncChart(context.Background(), "", 7))
	assert.Equal(t, MsgInvalidCoinID, events[1].Message)
	f.remote.AssertNotCalled(t, "FetchMarketChart", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncChart_FailureNoCache(t *testing.T) {
	f := newFixture(t, true)
	f.remote.On("FetchMarketChart", mock.Anything, "bitcoin", 365).
		Return(nil, entities.NewNetworkError(entities.NetworkRateLimited, "/coins/bitcoin/market_chart", 0, errors.New("wait exceeded"))).Once()

	events := Collect(f.svc.SyncChart(context.Background(), "bitcoin", 365))

	assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultError}, kinds(events))
	assert.Equal(t, MsgRateLimited, events[1].Message)
}
