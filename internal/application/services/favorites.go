package services

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/internal/infrastructure/metrics"
	"context"
	"fmt"
	"strings"
)

// FavoriteSet returns the ids flagged as favorite in a snapshot
func FavoriteSet(coins []entities.CoinSummary) map[string]bool {
	set := make(map[string]bool)
	for _, c := range coins {
		if c.IsFavorite {
			set[c.ID] = true
		}
	}
	return set
}

// MergeFavorites copies fresh and sets IsFavorite iff the id is in favorites.
// fresh is never modified.
func MergeFavorites(favorites map[string]bool, fresh []entities.CoinSummary) []entities.CoinSummary {
	merged := entities.CopyCoins(fresh)
	if merged == nil {
		merged = []entities.CoinSummary{}
	}
	for i := range merged {
		merged[i].IsFavorite = favorites[merged[i].ID]
	}
	return merged
}

// ToggleFavorite flips the flag for coinID and returns the new state.
// Only the favorites set changes; details, charts and the network are untouched.
func (c *Coordinator) ToggleFavorite(ctx context.Context, coinID string) (bool, error) {
	coinID = strings.TrimSpace(coinID)
	if coinID == "" {
		return false, entities.ErrInvalidCoinID
	}

	current, err := c.store.IsFavorite(ctx, coinID)
	if err != nil {
		return false, fmt.Errorf("failed to read favorite flag for %s: %w", coinID, err)
	}

	next := !current
	if err := c.store.SetFavorite(ctx, coinID, next); err != nil {
		return current, fmt.Errorf("failed to update favorite flag for %s: %w", coinID, err)
	}

	metrics.RecordFavoriteToggle(next)
	logging.Info(ctx, "Favorite toggled", logging.Fields{
		logging.FieldCoinID: coinID,
		"is_favorite":       next,
	})
	return next, nil
}

// FavoritesOnce returns the cached summaries currently flagged as favorite, in list order
func (c *Coordinator) FavoritesOnce(ctx context.Context) ([]entities.CoinSummary, error) {
	coins, err := c.store.GetCoins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached coins: %w", err)
	}

	favorites := make([]entities.CoinSummary, 0)
	for _, coin := range coins {
		if coin.IsFavorite {
			favorites = append(favorites, coin)
		}
	}
	return favorites, nil
}

// FavoriteCoins is a live view of FavoritesOnce
func (c *Coordinator) FavoriteCoins(ctx context.Context) <-chan []entities.CoinSummary {
	return c.liveView(ctx, "favorites", c.FavoritesOnce,
		interfaces.TopicFavoritesChanged, interfaces.TopicCoinsChanged)
}
