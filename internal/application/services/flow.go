package services

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/internal/infrastructure/metrics"
	"context"
	"errors"
	"fmt"
	"time"
)

// flowBuffer cubre el peor caso del listado: Loading, Success(cache), Success(refresh)
const flowBuffer = 3

// Mensajes visibles para el usuario; el texto crudo del error solo va al log
const (
	MsgNoConnectionNoCache = "No internet connection and no cached data available"
	MsgNoConnection        = "No internet connection"
	MsgTimeout             = "Request timed out"
	MsgRateLimited         = "Too many requests, please try again later"
	MsgMalformed           = "Received malformed data from server"
	MsgNetwork             = "Network error"
	MsgInvalidCoinID       = "Invalid coin id"
	MsgInvalidDays         = "Invalid chart range"
)

const reasonOffline = "offline"

// sink entrega los eventos de un flujo mientras el caller siga escuchando
type sink[T any] struct {
	ctx      context.Context
	out      chan entities.Result[T]
	resource string
	key      string
	last     entities.Result[T]
}

// runFlow ejecuta body en su propia goroutine y cierra el canal al terminar
func runFlow[T any](ctx context.Context, resource, key string, body func(s *sink[T])) <-chan entities.Result[T] {
	out := make(chan entities.Result[T], flowBuffer)
	s := &sink[T]{ctx: ctx, out: out, resource: resource, key: key}

	go func() {
		start := time.Now()
		defer close(out)

		logging.Sync().FlowStarted(ctx, resource, key)
		body(s)
		metrics.RecordSyncFlow(resource, s.outcome(), time.Since(start).Seconds())
	}()
	return out
}

func (s *sink[T]) outcome() string {
	switch s.last.Kind {
	case entities.ResultSuccess:
		return string(s.last.Origin)
	case entities.ResultError:
		return "error"
	default:
		return "cancelled"
	}
}

// emit returns false once the caller stopped listening
func (s *sink[T]) emit(r entities.Result[T]) bool {
	if s.ctx.Err() != nil {
		return false
	}
	select {
	case s.out <- r:
		if r.IsTerminal() {
			s.last = r
		}
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *sink[T]) loading() bool {
	return s.emit(entities.Loading[T]())
}

func (s *sink[T]) success(data T, origin entities.Origin, count int) bool {
	if !s.emit(entities.Success(data, origin)) {
		return false
	}
	logging.Sync().Served(s.ctx, s.resource, s.key, string(origin), count)
	return true
}

// fallback sirve datos cacheados porque el refresh no fue posible
func (s *sink[T]) fallback(data T, count int, reason string, err error) bool {
	metrics.RecordFallbackActivation(reason, s.resource)
	logging.Sync().FallbackUsed(s.ctx, s.resource, s.key, reason, err)
	return s.success(data, entities.OriginStaleCache, count)
}

func (s *sink[T]) fail(message string, err error) {
	logging.Sync().FlowFailed(s.ctx, s.resource, s.key, message, err)
	s.emit(entities.Failure[T](message))
}

// FailureMessage maps an error to the short message shown to users
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, entities.ErrNoConnectivity):
		return MsgNoConnection
	case errors.Is(err, entities.ErrInvalidCoinID):
		return MsgInvalidCoinID
	case errors.Is(err, entities.ErrInvalidDays):
		return MsgInvalidDays
	}

	netErr, ok := entities.AsNetworkError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return MsgTimeout
		}
		return MsgNetwork
	}

	switch netErr.Kind {
	case entities.NetworkTimeout:
		return MsgTimeout
	case entities.NetworkRateLimited:
		return MsgRateLimited
	case entities.NetworkMalformed:
		return MsgMalformed
	case entities.NetworkHTTPStatus:
		if netErr.StatusCode == 429 {
			return MsgRateLimited
		}
		return fmt.Sprintf("Server error (HTTP %d)", netErr.StatusCode)
	default:
		return MsgNetwork
	}
}

// fallbackReason is the label used for fallback metrics and logs
func fallbackReason(err error) string {
	if netErr, ok := entities.AsNetworkError(err); ok {
		return string(netErr.Kind)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return string(entities.NetworkTimeout)
	}
	return "unknown"
}

// Collect drains a flow into its ordered event list
func Collect[T any](events <-chan entities.Result[T]) []entities.Result[T] {
	var out []entities.Result[T]
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

// Terminal returns the last terminal event of a collected flow
func Terminal[T any](events []entities.Result[T]) (entities.Result[T], bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].IsTerminal() {
			return events[i], true
		}
	}
	return entities.Result[T]{}, false
}
