package services

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/infrastructure/logging"
	"context"
	"time"
)

const listKey = "coins"

// SyncCoinList emits Loading, then the cached list when there is one, then the
// refreshed list if the list gate is due. An empty cache always forces a refresh.
func (c *Coordinator) SyncCoinList(ctx context.Context, forceRefresh bool) <-chan entities.Result[[]entities.CoinSummary] {
	return runFlow(ctx, resourceList, listKey, func(s *sink[[]entities.CoinSummary]) {
		c.syncCoinList(ctx, s, forceRefresh)
	})
}

func (c *Coordinator) syncCoinList(ctx context.Context, s *sink[[]entities.CoinSummary], force bool) {
	if !s.loading() {
		return
	}

	cached, err := c.store.GetCoins(ctx)
	if err != nil {
		// un cache ilegible se trata como vacio
		logging.WarnWithError(ctx, "Failed to read cached coin list", err, logging.Fields{
			logging.FieldResource: resourceList,
		})
		cached = nil
	}
	hasCache := len(cached) > 0

	if hasCache && !force {
		if !s.success(cached, entities.OriginCache, len(cached)) {
			return
		}
	}

	// sin cache no hay estado terminal silencioso: siempre se refresca
	due := !hasCache || c.policy.ShouldRefreshList(c.lastListFetch(ctx), c.clock.Now(), force)
	if !due {
		return
	}

	if !c.online(ctx) {
		if hasCache {
			s.fallback(cached, len(cached), reasonOffline, entities.ErrNoConnectivity)
			return
		}
		s.fail(MsgNoConnectionNoCache, entities.ErrNoConnectivity)
		return
	}

	ioCtx, cancel := c.ioContext(ctx)
	defer cancel()

	fresh, err := c.remote.FetchCoins(ioCtx)
	if err != nil {
		if hasCache {
			s.fallback(cached, len(cached), fallbackReason(err), err)
			return
		}
		s.fail(FailureMessage(err), err)
		return
	}

	favorites := FavoriteSet(cached)
	if ids, err := c.store.FavoriteIDs(ioCtx); err == nil {
		for _, id := range ids {
			favorites[id] = true
		}
	}

	fetchedAt := c.clock.Now()
	merged := MergeFavorites(favorites, fresh)
	for i := range merged {
		merged[i].CachedAt = fetchedAt
	}
	entities.SortByRank(merged)

	if err := c.store.PutCoins(ioCtx, merged); err != nil {
		logging.ErrorWithError(ctx, "Failed to persist refreshed coin list", err, logging.Fields{
			logging.FieldCount: len(merged),
		})
	} else if c.meta != nil {
		if err := c.meta.SetLastListFetch(ioCtx, fetchedAt); err != nil {
			logging.WarnWithError(ctx, "Failed to record list fetch time", err, nil)
		}
	}

	s.success(merged, entities.OriginNetwork, len(merged))
}

// lastListFetch returns the zero time when unknown, which makes the gate due
func (c *Coordinator) lastListFetch(ctx context.Context) time.Time {
	if c.meta == nil {
		return time.Time{}
	}
	ts, err := c.meta.LastListFetch(ctx)
	if err != nil {
		logging.WarnWithError(ctx, "Failed to read list fetch time", err, nil)
		return time.Time{}
	}
	return ts
}
