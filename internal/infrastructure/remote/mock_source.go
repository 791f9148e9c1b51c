// Package remote holds the RemoteSource implementations: the CoinGecko client
// and an offline mock for development (coingecko.mock_mode).
package remote

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/infrastructure/logging"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

var errUnknownCoin = errors.New("unknown coin")

type mockCoin struct {
	id, symbol, name string
	price            float64
	marketCap        float64
}

// MockSource implementa RemoteSource con precios falsos pero realistas
type MockSource struct {
	mu       sync.RWMutex
	coins    []mockCoin
	variance float64
}

func NewMockSource() *MockSource {
	return &MockSource{
		coins: []mockCoin{
			{"bitcoin", "btc", "Bitcoin", 65000, 1.28e12},
			{"ethereum", "eth", "Ethereum", 3200, 3.85e11},
			{"tether", "usdt", "Tether", 1, 1.1e11},
			{"binancecoin", "bnb", "BNB", 580, 8.6e10},
			{"solana", "sol", "Solana", 145, 6.7e10},
			{"ripple", "xrp", "XRP", 0.52, 2.9e10},
			{"cardano", "ada", "Cardano", 0.45, 1.6e10},
			{"dogecoin", "doge", "Dogecoin", 0.13, 1.9e10},
			{"litecoin", "ltc", "Litecoin", 95, 7.1e9},
			{"bitcoin-cash", "bch", "Bitcoin Cash", 470, 9.2e9},
		},
		variance: 0.02, // ±2%
	}
}

// SetVariance configura la variacion porcentual; 0 devuelve precios fijos
func (m *MockSource) SetVariance(variance float64) {
	m.mu.Lock()
	m.variance = variance
	m.mu.Unlock()
}

func (m *MockSource) jitter(base float64) float64 {
	return base * (1 + (rand.Float64()*2-1)*m.variance)
}

func (m *MockSource) FetchCoins(ctx context.Context) ([]entities.CoinSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now().UTC().Format(time.RFC3339)
	coins := make([]entities.CoinSummary, 0, len(m.coins))
	for i, c := range m.coins {
		rank := i + 1
		change := (rand.Float64()*2 - 1) * 5
		coins = append(coins, entities.CoinSummary{
			ID:                       c.id,
			Symbol:                   c.symbol,
			Name:                     c.name,
			CurrentPrice:             m.jitter(c.price),
			MarketCap:                m.jitter(c.marketCap),
			MarketCapRank:            &rank,
			TotalVolume:              c.marketCap * 0.03,
			PriceChangePercentage24h: &change,
			LastUpdated:              now,
		})
	}

	logging.Debug(ctx, "MockSource: generated coin list", logging.Fields{"count": len(coins)})
	return coins, nil
}

func (m *MockSource) find(coinID string) (mockCoin, bool) {
	for _, c := range m.coins {
		if c.id == coinID {
			return c, true
		}
	}
	return mockCoin{}, false
}

func (m *MockSource) FetchCoinDetail(ctx context.Context, coinID string) (*entities.CoinDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.find(coinID)
	if !ok {
		return nil, entities.NewNetworkError(entities.NetworkHTTPStatus, "/coins/{id}", http.StatusNotFound,
			fmt.Errorf("%w: %s", errUnknownCoin, coinID))
	}

	price := m.jitter(c.price)
	return &entities.CoinDetail{
		ID:           c.id,
		Symbol:       c.symbol,
		Name:         c.name,
		Description:  fmt.Sprintf("%s is a mock asset served in mock mode.", c.name),
		CurrentPrice: price,
		MarketCap:    m.jitter(c.marketCap),
		High24h:      price * 1.03,
		Low24h:       price * 0.97,
		Links: entities.CoinLinks{
			Homepage: []string{fmt.Sprintf("https://example.com/%s", c.id)},
		},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// FetchMarketChart genera una serie horaria (diaria para rangos largos)
func (m *MockSource) FetchMarketChart(ctx context.Context, coinID string, days int) (*entities.ChartSeries, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.find(coinID)
	if !ok {
		return nil, entities.NewNetworkError(entities.NetworkHTTPStatus, "/coins/{id}/market_chart", http.StatusNotFound,
			fmt.Errorf("%w: %s", errUnknownCoin, coinID))
	}

	step := time.Hour
	if days > 90 {
		step = 24 * time.Hour
	}
	end := time.Now().UTC()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	series := &entities.ChartSeries{CoinID: coinID, Days: days}
	for ts := start; !ts.After(end); ts = ts.Add(step) {
		ms := ts.UnixMilli()
		price := m.jitter(c.price)
		series.Prices = append(series.Prices, entities.ChartPoint{Timestamp: ms, Value: price})
		series.MarketCaps = append(series.MarketCaps, entities.ChartPoint{Timestamp: ms, Value: price / c.price * c.marketCap})
		series.TotalVolumes = append(series.TotalVolumes, entities.ChartPoint{Timestamp: ms, Value: c.marketCap * 0.03})
	}
	return series, nil
}
