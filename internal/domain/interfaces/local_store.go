package interfaces

import (
	"coinbit-sync/internal/domain/entities"
	"context"
	"time"
)

// LocalStore guarda las tres colecciones cacheadas y el set de favoritos.
// Las implementaciones deben ser seguras para acceso concurrente.
// Los Get* devuelven entities.ErrNotFound cuando no hay registro.
type LocalStore interface {
	// GetCoins returns the cached list ordered by market cap rank, unranked last,
	// with IsFavorite overlaid from the favorites set. An empty cache is an
	// empty slice and a nil error.
	GetCoins(ctx context.Context) ([]entities.CoinSummary, error)
	// PutCoins upserts every summary; it never touches the favorites set.
	PutCoins(ctx context.Context, coins []entities.CoinSummary) error
	GetCoin(ctx context.Context, coinID string) (*entities.CoinSummary, error)

	GetDetail(ctx context.Context, coinID string) (*entities.CoinDetail, error)
	PutDetail(ctx context.Context, detail *entities.CoinDetail) error

	GetChart(ctx context.Context, key string) (*entities.ChartSeries, error)
	PutChart(ctx context.Context, key string, series *entities.ChartSeries) error

	IsFavorite(ctx context.Context, coinID string) (bool, error)
	SetFavorite(ctx context.Context, coinID string, favorite bool) error
	FavoriteIDs(ctx context.Context) ([]string, error)

	// PruneBefore removes non-favorite summaries, details and charts cached before ts.
	PruneBefore(ctx context.Context, ts time.Time) error
	// Clear wipes every collection including favorites.
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// MetadataStore persists small values that outlive a single sync
type MetadataStore interface {
	LastListFetch(ctx context.Context) (time.Time, error)
	SetLastListFetch(ctx context.Context, ts time.Time) error
	Clear(ctx context.Context) error
	Close() error
}

// Change topics published by observed stores
const (
	TopicCoinsChanged     = "coins:changed"
	TopicFavoritesChanged = "favorites:changed"
)

// ChangeFeed entrega notificaciones de cambio por topic.
// El cancel devuelto libera la suscripcion; el canal queda cerrado despues.
type ChangeFeed interface {
	Watch(topic string) (<-chan struct{}, func())
}
