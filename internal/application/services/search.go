package services

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/logging"
	"context"
	"fmt"
	"strings"
)

// MatchQuery reports a case-insensitive substring match on name or symbol.
// An empty query matches everything.
func MatchQuery(coin entities.CoinSummary, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(coin.Name), q) ||
		strings.Contains(strings.ToLower(coin.Symbol), q)
}

// SearchOnce filters the cached list without touching the network
func (c *Coordinator) SearchOnce(ctx context.Context, query string) ([]entities.CoinSummary, error) {
	coins, err := c.store.GetCoins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached coins: %w", err)
	}

	matches := make([]entities.CoinSummary, 0, len(coins))
	for _, coin := range coins {
		if MatchQuery(coin, query) {
			matches = append(matches, coin)
		}
	}
	return matches, nil
}

// SearchCoins re-evaluates the query every time the cached list changes
func (c *Coordinator) SearchCoins(ctx context.Context, query string) <-chan []entities.CoinSummary {
	project := func(ctx context.Context) ([]entities.CoinSummary, error) {
		return c.SearchOnce(ctx, query)
	}
	return c.liveView(ctx, "search", project, interfaces.TopicCoinsChanged)
}

// liveView emite la proyeccion inicial y una nueva por cada cambio en topics
// hasta que ctx termina. Las notificaciones se coalescen.
func (c *Coordinator) liveView(ctx context.Context, name string, project func(context.Context) ([]entities.CoinSummary, error), topics ...string) <-chan []entities.CoinSummary {
	out := make(chan []entities.CoinSummary, 1)
	changes, stop := c.watch(topics)

	go func() {
		defer close(out)
		defer stop()

		for {
			coins, err := project(ctx)
			if err != nil {
				logging.WarnWithError(ctx, "Live view projection failed", err, logging.Fields{
					"view": name,
				})
			} else {
				select {
				case out <- coins:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-changes:
			}
		}
	}()
	return out
}

// watch se suscribe antes de la primera proyeccion para no perder cambios.
// Sin feed el canal nunca dispara.
func (c *Coordinator) watch(topics []string) (<-chan struct{}, func()) {
	merged := make(chan struct{}, 1)
	if c.feed == nil {
		return merged, func() {}
	}

	var cancels []func()
	for _, topic := range topics {
		ch, cancel := c.feed.Watch(topic)
		cancels = append(cancels, cancel)

		go func(ch <-chan struct{}) {
			for range ch {
				select {
				case merged <- struct{}{}:
				default:
				}
			}
		}(ch)
	}

	return merged, func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
