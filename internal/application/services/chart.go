package services

import (
	"coinbit-sync/internal/domain/entities"
	"context"
	"strings"
	"time"
)

// SyncChart serves the market chart for (coinID, days). Each range is its own
// cache entry keyed coinID_days; there is no favorite overlay.
func (c *Coordinator) SyncChart(ctx context.Context, coinID string, days int) <-chan entities.Result[*entities.ChartSeries] {
	coinID = strings.TrimSpace(coinID)
	key := entities.ChartKey(coinID, days)

	return runFlow(ctx, resourceChart, key, func(s *sink[*entities.ChartSeries]) {
		switch {
		case coinID == "":
			if s.loading() {
				s.fail(MsgInvalidCoinID, entities.ErrInvalidCoinID)
			}
			return
		case days <= 0:
			if s.loading() {
				s.fail(MsgInvalidDays, entities.ErrInvalidDays)
			}
			return
		}

		syncRecord(ctx, c, s, recordFlow[*entities.ChartSeries]{
			resource: resourceChart,
			key:      key,
			read: func(ctx context.Context) (*entities.ChartSeries, time.Time, error) {
				series, err := c.store.GetChart(ctx, key)
				if err != nil {
					return nil, time.Time{}, err
				}
				return series, series.CachedAt, nil
			},
			valid: c.policy.ChartValid,
			fetch: func(ctx context.Context) (*entities.ChartSeries, error) {
				return c.remote.FetchMarketChart(ctx, coinID, days)
			},
			write: func(ctx context.Context, series *entities.ChartSeries, now time.Time) error {
				series.CoinID = coinID
				series.Days = days
				series.CachedAt = now
				return c.store.PutChart(ctx, key, series)
			},
			present: func(series *entities.ChartSeries) *entities.ChartSeries { return series },
			count:   func(series *entities.ChartSeries) int { return len(series.Prices) },
		})
	})
}
