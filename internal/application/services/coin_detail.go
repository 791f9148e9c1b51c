package services

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/infrastructure/logging"
	"context"
	"strings"
	"time"
)

// SyncCoinDetail serves the detail of one coin with the favorite flag overlaid
// from the favorites set. Valid for the detail window (10m by default).
func (c *Coordinator) SyncCoinDetail(ctx context.Context, coinID string) <-chan entities.Result[*entities.CoinDetail] {
	coinID = strings.TrimSpace(coinID)

	return runFlow(ctx, resourceDetail, coinID, func(s *sink[*entities.CoinDetail]) {
		if coinID == "" {
			if s.loading() {
				s.fail(MsgInvalidCoinID, entities.ErrInvalidCoinID)
			}
			return
		}

		// el flag se lee tras Loading, una sola vez por flujo
		var (
			favorite bool
			resolved bool
		)
		isFavorite := func() bool {
			if resolved {
				return favorite
			}
			resolved = true
			fav, err := c.store.IsFavorite(ctx, coinID)
			if err != nil {
				logging.WarnWithError(ctx, "Failed to read favorite flag", err, logging.Fields{
					logging.FieldCoinID: coinID,
				})
				return false
			}
			favorite = fav
			return favorite
		}

		syncRecord(ctx, c, s, recordFlow[*entities.CoinDetail]{
			resource: resourceDetail,
			key:      coinID,
			read: func(ctx context.Context) (*entities.CoinDetail, time.Time, error) {
				d, err := c.store.GetDetail(ctx, coinID)
				if err != nil {
					return nil, time.Time{}, err
				}
				return d, d.CachedAt, nil
			},
			valid: c.policy.DetailValid,
			fetch: func(ctx context.Context) (*entities.CoinDetail, error) {
				return c.remote.FetchCoinDetail(ctx, coinID)
			},
			write: func(ctx context.Context, d *entities.CoinDetail, now time.Time) error {
				d.CachedAt = now
				return c.store.PutDetail(ctx, d)
			},
			present: func(d *entities.CoinDetail) *entities.CoinDetail {
				return d.WithFavorite(isFavorite())
			},
			count: func(*entities.CoinDetail) int { return 1 },
		})
	})
}
