package services

import (
	"coinbit-sync/internal/application/freshness"
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/infrastructure/logging"
	"context"
	"errors"
	"time"
)

// recordFlow describe un recurso de un solo registro (detalle o grafico)
// con su propia ventana de validez.
type recordFlow[T any] struct {
	resource string
	key      string
	// read devuelve entities.ErrNotFound cuando no hay registro
	read  func(ctx context.Context) (T, time.Time, error)
	valid func(cachedAt, now time.Time) bool
	fetch func(ctx context.Context) (T, error)
	// write persiste el registro recien traido con el timestamp dado
	write func(ctx context.Context, record T, now time.Time) error
	// present ajusta el registro antes de emitirlo
	present func(record T) T
	count   func(record T) int
}

// syncRecord: cache valido, sin red con cualquier cache, fetch y persistencia,
// y ante falla el cache aunque este vencido.
func syncRecord[T any](ctx context.Context, c *Coordinator, s *sink[T], rf recordFlow[T]) {
	if !s.loading() {
		return
	}

	cached, cachedAt, err := rf.read(ctx)
	hasCache := err == nil
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		logging.WarnWithError(ctx, "Failed to read cached record", err, logging.Fields{
			logging.FieldResource: rf.resource,
			logging.FieldCacheKey: rf.key,
		})
	}

	valid := hasCache && rf.valid(cachedAt, c.clock.Now())
	online := valid || c.online(ctx)

	switch freshness.Decide(hasCache, valid, online) {
	case freshness.ServeCache:
		s.success(rf.present(cached), entities.OriginCache, rf.count(cached))
		return
	case freshness.ServeCacheOffline:
		s.fallback(rf.present(cached), rf.count(cached), reasonOffline, entities.ErrNoConnectivity)
		return
	case freshness.ErrorNoData:
		s.fail(MsgNoConnection, entities.ErrNoConnectivity)
		return
	}

	ioCtx, cancel := c.ioContext(ctx)
	defer cancel()

	fresh, err := rf.fetch(ioCtx)
	if err != nil {
		if hasCache {
			s.fallback(rf.present(cached), rf.count(cached), fallbackReason(err), err)
			return
		}
		s.fail(FailureMessage(err), err)
		return
	}

	if err := rf.write(ioCtx, fresh, c.clock.Now()); err != nil {
		logging.ErrorWithError(ctx, "Failed to persist fetched record", err, logging.Fields{
			logging.FieldResource: rf.resource,
			logging.FieldCacheKey: rf.key,
		})
	}

	s.success(rf.present(fresh), entities.OriginNetwork, rf.count(fresh))
}
