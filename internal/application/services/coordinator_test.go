package services

import (
	"coinbit-sync/internal/application/freshness"
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/infrastructure/clock"
	"coinbit-sync/internal/infrastructure/connectivity"
	"coinbit-sync/internal/infrastructure/repositories/cache"
	"coinbit-sync/internal/infrastructure/repositories/prefs"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// MockRemote es un mock de interfaces.RemoteSource
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) FetchCoins(ctx context.Context) ([]entities.CoinSummary, error) {
	args := m.Called(ctx)
	coins, _ := args.Get(0).([]entities.CoinSummary)
	return coins, args.Error(1)
}

func (m *MockRemote) FetchCoinDetail(ctx context.Context, coinID string) (*entities.CoinDetail, error) {
	args := m.Called(ctx, coinID)
	detail, _ := args.Get(0).(*entities.CoinDetail)
	return detail, args.Error(1)
}

func (m *MockRemote) FetchMarketChart(ctx context.Context, coinID string, days int) (*entities.ChartSeries, error) {
	args := m.Called(ctx, coinID, days)
	series, _ := args.Get(0).(*entities.ChartSeries)
	return series, args.Error(1)
}

type fixture struct {
	remote *MockRemote
	store  *cache.MemoryStore
	meta   *prefs.MemoryStore
	clock  *clock.Fake
	svc    *Coordinator
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()
	f := &fixture{
		remote: new(MockRemote),
		store:  cache.NewMemoryStore(),
		meta:   prefs.NewMemoryStore(),
		clock:  clock.NewFake(testNow),
	}
	f.svc = NewCoordinator(Deps{
		Remote:       f.remote,
		Store:        f.store,
		Meta:         f.meta,
		Connectivity: connectivity.Static(online),
		Clock:        f.clock,
		Policy:       freshness.NewPolicy(freshness.DefaultWindows()),
		FetchTimeout: time.Second,
	})
	return f
}

func (f *fixture) seedCoins(t *testing.T, n int, age time.Duration) []entities.CoinSummary {
	t.Helper()
	coins := makeCoins(n)
	for i := range coins {
		coins[i].CachedAt = testNow.Add(-age)
	}
	require.NoError(t, f.store.PutCoins(context.Background(), coins))
	require.NoError(t, f.meta.SetLastListFetch(context.Background(), testNow.Add(-age)))
	return coins
}

func makeCoins(n int) []entities.CoinSummary {
	coins := make([]entities.CoinSummary, n)
	for i := range coins {
		r := i + 1
		coins[i] = entities.CoinSummary{
			ID:            fmt.Sprintf("coin-%02d", r),
			Symbol:        fmt.Sprintf("c%d", r),
			Name:          fmt.Sprintf("Coin %d", r),
			MarketCapRank: &r,
			CurrentPrice:  float64(r * 100),
		}
	}
	return coins
}

func kinds[T any](events []entities.Result[T]) []entities.ResultKind {
	out := make([]entities.ResultKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func origins[T any](events []entities.Result[T]) []entities.Origin {
	var out []entities.Origin
	for _, ev := range events {
		if ev.Kind == entities.ResultSuccess {
			out = append(out, ev.Origin)
		}
	}
	return out
}

func TestSyncCoinList_EmptyCacheGateDue(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.meta.SetLastListFetch(context.Background(), testNow.Add(-20*time.Minute)))
	f.remote.On("FetchCoins", mock.Anything).Return(makeCoins(3), nil).Once()

	events := Collect(f.svc.SyncCoinList(context.Background(), false))

	assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess}, kinds(events))
	assert.Equal(t, []entities.Origin{entities.OriginNetwork}, origins(events))
	assert.Len(t, events[1].Data, 3)

	cached, err := f.store.GetCoins(context.Background())
	require.NoError(t, err)
	assert.Len(t, cached, 3)
	for _, c := range cached {
		assert.Equal(t, testNow, c.CachedAt)
	}

	last, err := f.meta.LastListFetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testNow, last)
	f.remote.AssertExpectations(t)
}

func TestSyncCoinList_FreshCacheNoNetworkCall(t *testing.T) {
	f := newFixture(t, true)
	f.seedCoins(t, 5, 5*time.Minute)

	events := Collect(f.svc.SyncCoinList(context.Background(), false))

	assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess}, kinds(events))
	assert.Equal(t, []entities.Origin{entities.OriginCache}, origins(events))
	assert.Len(t, events[1].Data, 5)
	f.remote.AssertNotCalled(t, "FetchCoins", mock.Anything)
}

func TestSyncCoinList_GateDueRefreshes(t *testing.T) {
	f := newFixture(t, true)
	f.seedCoins(t, 2, 16*time.Minute)
	f.remote.On("FetchCoins", mock.Anything).Return(makeCoins(4), nil).Once()

	events := Collect(f.svc.SyncCoinList(context.Background(), false))

	assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess, entities.ResultSuccess}, kinds(events))
	assert.Equal(t, []entities.Origin{entities.OriginCache, entities.OriginNetwork}, origins(events))
	assert.Len(t, events[1].Data, 2)
	assert.Len(t, events[2].Data, 4)
}

func TestSyncCoinList_EmptyCacheGateNotDueStillFetches(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.meta.SetLastListFetch(context.Background(), testNow.Add(-time.Minute)))
	f.remote.On("FetchCoins", mock.Anything).Return(makeCoins(2), nil).Once()

	events := Collect(f.svc.SyncCoinList(context.Background(), false))

	assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess}, kinds(events))
	f.remote.AssertExpectations(t)
}

func TestSyncCoinList_ForceSkipsOptimisticEmit(t *testing.T) {
	f := newFixture(t, true)
	f.seedCoins(t, 5, time.Minute)
	f.remote.On("FetchCoins", mock.Anything).Return(makeCoins(3), nil).Once()

	events := Collect(f.svc.SyncCoinList(context.Background(), true))

	assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess}, kinds(events))
	assert.Equal(t, []entities.Origin{entities.OriginNetwork}, origins(events))
}

func TestSyncCoinList_Offline(t *testing.T) {
	tests := []struct {
		name        string
		seed        int
		age         time.Duration
		force       bool
		wantKinds   []entities.ResultKind
		wantOrigins []entities.Origin
		wantMessage string
	}{
		{
			name:        "cache vacio",
			wantKinds:   []entities.ResultKind{entities.ResultLoading, entities.ResultError},
			wantMessage: MsgNoConnectionNoCache,
		},
		{
			name:        "cache fresco",
			seed:        3,
			age:         time.Minute,
			wantKinds:   []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess},
			wantOrigins: []entities.Origin{entities.OriginCache},
		},
		{
			name:        "cache vencido",
			seed:        3,
			age:         time.Hour,
			wantKinds:   []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess, entities.ResultSuccess},
			wantOrigins: []entities.Origin{entities.OriginCache, entities.OriginStaleCache},
		},
		{
			name:        "forzado con cache",
			seed:        3,
			age:         time.Minute,
			force:       true,
			wantKinds:   []entities.ResultKind{entities.ResultLoading, entities.ResultSuccess},
			wantOrigins: []entities.Origin{entities.OriginStaleCache},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			if tt.seed > 0 {
				f.seedCoins(t, tt.seed, tt.age)
			}

			events := Collect(f.svc.SyncCoinList(context.Background(), tt.force))

			assert.Equal(t, tt.wantKinds, kinds(events))
			assert.Equal(t, tt.wantOrigins, origins(events))
			last, ok := Terminal(events)
			require.True(t, ok)
			assert.Equal(t, tt.wantMessage, last.Message)
			f.remote.AssertNotCalled(t, "FetchCoins", mock.Anything)
		})
	}
}

func TestSyncCoinList_FetchFailure(t *testing.T) {
	rateLimited := entities.NewNetworkError(entities.NetworkHTTPStatus, "/coins/markets", 429, errors.New("429"))

	t.Run("con cache degrada al cache", func(t *testing.T) {
		f := newFixture(t, true)
		f.seedCoins(t, 3, time.Hour)
		f.remote.On("FetchCoins", mock.Anything).Return(nil, rateLimited).Once()

		events := Collect(f.svc.SyncCoinList(context.Background(), false))

		assert.Equal(t, []entities.Origin{entities.OriginCache, entities.OriginStaleCache}, origins(events))
		assert.Len(t, events[2].Data, 3)

		last, err := f.meta.LastListFetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testNow.Add(-time.Hour), last, "una falla no mueve el gate")
	})

	t.Run("sin cache devuelve mensaje corto", func(t *testing.T) {
		f := newFixture(t, true)
		f.remote.On("FetchCoins", mock.Anything).Return(nil, rateLimited).Once()

		events := Collect(f.svc.SyncCoinList(context.Background(), false))

		assert.Equal(t, []entities.ResultKind{entities.ResultLoading, entities.ResultError}, kinds(events))
		assert.Equal(t, MsgRateLimited, events[1].Message)
	})
}

func TestSyncCoinList_FavoriteSurvivesOverwrite(t *testing.T) {
	f := newFixture(t, true)
	f.seedCoins(t, 3, time.Hour)
	require.NoError(t, f.store.SetFavorite(context.Background(), "coin-02", true))

	fresh := makeCoins(3)
	fresh[1].CurrentPrice = 999
	f.remote.On("FetchCoins", mock.Anything).Return(fresh, nil).Once()

	events := Collect(f.svc.SyncCoinList(context.Background(), true))

	last, ok := Terminal(events)
	require.True(t, ok)
	require.Len(t, last.Data, 3)
	assert.True(t, last.Data[1].IsFavorite)
	assert.Equal(t, 999.0, last.Data[1].CurrentPrice)
	assert.False(t, last.Data[0].IsFavorite)
	assert.False(t, fresh[1].IsFavorite, "la respuesta remota no se modifica")

	coin, err := f.store.GetCoin(context.Background(), "coin-02")
	require.NoError(t, err)
	assert.True(t, coin.IsFavorite)
}

func TestSyncCoinList_CancelledBeforeStart(t *testing.T) {
	f := newFixture(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := Collect(f.svc.SyncCoinList(ctx, false))

	assert.Empty(t, events)
	f.remote.AssertNotCalled(t, "FetchCoins", mock.Anything)
}

func TestSyncCoinList_CancelDuringFetchStillPersists(t *testing.T) {
	f := newFixture(t, true)
	release := make(chan struct{})
	started := make(chan struct{})
	f.remote.On("FetchCoins", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(makeCoins(3), nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	out := f.svc.SyncCoinList(ctx, false)

	first := <-out
	assert.Equal(t, entities.ResultLoading, first.Kind)
	<-started
	cancel()
	close(release)

	var rest []entities.Result[[]entities.CoinSummary]
	for ev := range out {
		rest = append(rest, ev)
	}
	assert.Empty(t, rest, "sin eventos despues de cancelar")

	coins, err := f.store.GetCoins(context.Background())
	require.NoError(t, err)
	assert.Len(t, coins, 3, "la escritura ocurre tras un fetch completo")
}

// ctxChecker anota si el contexto recibido ya estaba cancelado
type ctxChecker struct {
	sawCancelled bool
}

func (c *ctxChecker) IsOnline(ctx context.Context) bool {
	c.sawCancelled = ctx.Err() != nil
	return true
}

func TestOnline_ProbeDetachedFromCaller(t *testing.T) {
	checker := &ctxChecker{}
	svc := NewCoordinator(Deps{
		Remote:       new(MockRemote),
		Store:        cache.NewMemoryStore(),
		Connectivity: checker,
		FetchTimeout: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, svc.online(ctx))
	assert.False(t, checker.sawCancelled, "el chequeo no hereda la cancelacion del caller")
}

func TestClearCache(t *testing.T) {
	f := newFixture(t, true)
	f.seedCoins(t, 3, time.Minute)
	require.NoError(t, f.store.SetFavorite(context.Background(), "coin-01", true))

	require.NoError(t, f.svc.ClearCache(context.Background()))

	coins, err := f.store.GetCoins(context.Background())
	require.NoError(t, err)
	assert.Empty(t, coins)
	last, err := f.meta.LastListFetch(context.Background())
	require.NoError(t, err)
	assert.True(t, last.IsZero())
	ids, _ := f.store.FavoriteIDs(context.Background())
	assert.Empty(t, ids)
}

func TestPruneBefore(t *testing.T) {
	f := newFixture(t, true)
	f.seedCoins(t, 3, 2*time.Hour)
	require.NoError(t, f.store.SetFavorite(context.Background(), "coin-03", true))

	require.NoError(t, f.svc.PruneBefore(context.Background(), testNow.Add(-time.Hour)))

	coins, err := f.store.GetCoins(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "coin-03", coins[0].ID)
}
