package interfaces

import (
	"coinbit-sync/internal/domain/entities"
	"context"
	"time"
)

// SyncService define los casos de uso expuestos a la capa de presentacion.
// Cada Sync* devuelve una secuencia ordenada y finita: Loading primero y luego
// exactamente un Success o Error terminal (el listado puede emitir dos Success).
// El canal se cierra al terminar; cancelar ctx detiene la entrega de eventos.
type SyncService interface {
	SyncCoinList(ctx context.Context, forceRefresh bool) <-chan entities.Result[[]entities.CoinSummary]
	SyncCoinDetail(ctx context.Context, coinID string) <-chan entities.Result[*entities.CoinDetail]
	SyncChart(ctx context.Context, coinID string, days int) <-chan entities.Result[*entities.ChartSeries]

	ToggleFavorite(ctx context.Context, coinID string) (bool, error)

	// SearchCoins y FavoriteCoins son vistas vivas: emiten una proyeccion nueva
	// cada vez que cambia el cache, hasta que ctx termina.
	SearchCoins(ctx context.Context, query string) <-chan []entities.CoinSummary
	FavoriteCoins(ctx context.Context) <-chan []entities.CoinSummary
	SearchOnce(ctx context.Context, query string) ([]entities.CoinSummary, error)
	FavoritesOnce(ctx context.Context) ([]entities.CoinSummary, error)

	ClearCache(ctx context.Context) error
	PruneBefore(ctx context.Context, ts time.Time) error
}
