package cache

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/internal/infrastructure/metrics"
	"context"
	"errors"
	"time"
)

// Publisher recibe los topics de cambio despues de cada escritura exitosa
type Publisher interface {
	Publish(ctx context.Context, topic string)
}

// ObservedStore envuelve un LocalStore con metricas, logs de cache y
// notificaciones de cambio para las vistas vivas.
type ObservedStore struct {
	inner     interfaces.LocalStore
	backend   string
	publisher Publisher
}

// NewObservedStore wraps inner. publisher may be nil
func NewObservedStore(inner interfaces.LocalStore, backend string, publisher Publisher) *ObservedStore {
	return &ObservedStore{inner: inner, backend: backend, publisher: publisher}
}

func (o *ObservedStore) observe(ctx context.Context, collection, op, key string, start time.Time, err error) {
	metrics.RecordCacheDuration(o.backend, op, time.Since(start).Seconds())

	result := "success"
	switch {
	case errors.Is(err, entities.ErrNotFound):
		result = "miss"
		logging.Cache().Miss(ctx, key, op)
	case err != nil:
		result = "error"
		logging.Cache().CacheError(ctx, op, key, err)
	case op == logging.CacheOpGet:
		result = "hit"
		logging.Cache().Hit(ctx, key, op)
	}
	metrics.RecordCacheOperation(collection, op, result)
}

func (o *ObservedStore) publish(ctx context.Context, topics ...string) {
	if o.publisher == nil {
		return
	}
	for _, topic := range topics {
		o.publisher.Publish(ctx, topic)
	}
}

func (o *ObservedStore) GetCoins(ctx context.Context) ([]entities.CoinSummary, error) {
	start := time.Now()
	coins, err := o.inner.GetCoins(ctx)
	if err == nil && len(coins) == 0 {
		// lista vacia cuenta como miss aunque no sea error
		o.observe(ctx, "coins", logging.CacheOpGet, "coins", start, entities.ErrNotFound)
		return coins, nil
	}
	o.observe(ctx, "coins", logging.CacheOpGet, "coins", start, err)
	return coins, err
}

func (o *ObservedStore) PutCoins(ctx context.Context, coins []entities.CoinSummary) error {
	start := time.Now()
	err := o.inner.PutCoins(ctx, coins)
	o.observe(ctx, "coins", logging.CacheOpSet, "coins", start, err)
	if err == nil {
		logging.Cache().Set(ctx, "coins", len(coins))
		o.publish(ctx, interfaces.TopicCoinsChanged)
	}
	return err
}

func (o *ObservedStore) GetCoin(ctx context.Context, coinID string) (*entities.CoinSummary, error) {
	start := time.Now()
	coin, err := o.inner.GetCoin(ctx, coinID)
	o.observe(ctx, "coins", logging.CacheOpGet, coinID, start, err)
	return coin, err
}

func (o *ObservedStore) GetDetail(ctx context.Context, coinID string) (*entities.CoinDetail, error) {
	start := time.Now()
	detail, err := o.inner.GetDetail(ctx, coinID)
	o.observe(ctx, "details", logging.CacheOpGet, coinID, start, err)
	return detail, err
}

func (o *ObservedStore) PutDetail(ctx context.Context, detail *entities.CoinDetail) error {
	start := time.Now()
	err := o.inner.PutDetail(ctx, detail)
	o.observe(ctx, "details", logging.CacheOpSet, detail.ID, start, err)
	return err
}

func (o *ObservedStore) GetChart(ctx context.Context, key string) (*entities.ChartSeries, error) {
	start := time.Now()
	series, err := o.inner.GetChart(ctx, key)
	o.observe(ctx, "charts", logging.CacheOpGet, key, start, err)
	return series, err
}

func (o *ObservedStore) PutChart(ctx context.Context, key string, series *entities.ChartSeries) error {
	start := time.Now()
	err := o.inner.PutChart(ctx, key, series)
	o.observe(ctx, "charts", logging.CacheOpSet, key, start, err)
	return err
}

func (o *ObservedStore) IsFavorite(ctx context.Context, coinID string) (bool, error) {
	return o.inner.IsFavorite(ctx, coinID)
}

// SetFavorite cambia el overlay del listado, asi que notifica ambos topics
func (o *ObservedStore) SetFavorite(ctx context.Context, coinID string, favorite bool) error {
	start := time.Now()
	err := o.inner.SetFavorite(ctx, coinID, favorite)
	o.observe(ctx, "favorites", logging.CacheOpSet, coinID, start, err)
	if err == nil {
		o.publish(ctx, interfaces.TopicFavoritesChanged, interfaces.TopicCoinsChanged)
	}
	return err
}

func (o *ObservedStore) FavoriteIDs(ctx context.Context) ([]string, error) {
	return o.inner.FavoriteIDs(ctx)
}

func (o *ObservedStore) PruneBefore(ctx context.Context, ts time.Time) error {
	start := time.Now()
	err := o.inner.PruneBefore(ctx, ts)
	o.observe(ctx, "all", logging.CacheOpPrune, ts.Format(time.RFC3339), start, err)
	if err == nil {
		o.publish(ctx, interfaces.TopicCoinsChanged)
	}
	return err
}

func (o *ObservedStore) Clear(ctx context.Context) error {
	start := time.Now()
	err := o.inner.Clear(ctx)
	o.observe(ctx, "all", logging.CacheOpClear, "*", start, err)
	if err == nil {
		logging.Cache().Delete(ctx, "*")
		o.publish(ctx, interfaces.TopicCoinsChanged, interfaces.TopicFavoritesChanged)
	}
	return err
}

func (o *ObservedStore) Ping(ctx context.Context) error {
	return o.inner.Ping(ctx)
}

func (o *ObservedStore) Close() error {
	return o.inner.Close()
}

// Backend returns the name of the wrapped backend
func (o *ObservedStore) Backend() string {
	return o.backend
}
