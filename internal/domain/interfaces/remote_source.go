package interfaces

import (
	"coinbit-sync/internal/domain/entities"
	"context"
)

// RemoteSource realiza las tres llamadas tipadas contra la API de mercado.
// Todas las fallas se devuelven como *entities.NetworkError.
type RemoteSource interface {
	FetchCoins(ctx context.Context) ([]entities.CoinSummary, error)
	FetchCoinDetail(ctx context.Context, coinID string) (*entities.CoinDetail, error)
	FetchMarketChart(ctx context.Context, coinID string, days int) (*entities.ChartSeries, error)
}
