package services

import (
	"coinbit-sync/internal/application/freshness"
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/clock"
	"coinbit-sync/internal/infrastructure/logging"
	"context"
	"fmt"
	"time"
)

// DefaultFetchTimeout acota cada llamada remota cuando no se configura otra
const DefaultFetchTimeout = 30 * time.Second

const (
	resourceList   = "coin_list"
	resourceDetail = "coin_detail"
	resourceChart  = "chart"
)

// Deps agrupa los colaboradores del coordinador.
// Clock, Policy, Connectivity y Feed son opcionales.
type Deps struct {
	Remote       interfaces.RemoteSource
	Store        interfaces.LocalStore
	Meta         interfaces.MetadataStore
	Connectivity interfaces.ConnectivityChecker
	Clock        interfaces.Clock
	Policy       *freshness.Policy
	Feed         interfaces.ChangeFeed
	FetchTimeout time.Duration
}

// Coordinator implements interfaces.SyncService over a local store and a remote source
type Coordinator struct {
	remote       interfaces.RemoteSource
	store        interfaces.LocalStore
	meta         interfaces.MetadataStore
	connectivity interfaces.ConnectivityChecker
	clock        interfaces.Clock
	policy       *freshness.Policy
	feed         interfaces.ChangeFeed
	fetchTimeout time.Duration
}

var _ interfaces.SyncService = (*Coordinator)(nil)

// NewCoordinator creates a new sync coordinator
func NewCoordinator(deps Deps) *Coordinator {
	c := &Coordinator{
		remote:       deps.Remote,
		store:        deps.Store,
		meta:         deps.Meta,
		connectivity: deps.Connectivity,
		clock:        deps.Clock,
		policy:       deps.Policy,
		feed:         deps.Feed,
		fetchTimeout: deps.FetchTimeout,
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.policy == nil {
		c.policy = freshness.NewPolicy(freshness.DefaultWindows())
	}
	if c.fetchTimeout <= 0 {
		c.fetchTimeout = DefaultFetchTimeout
	}
	return c
}

// online asume conectividad si no hay checker configurado. El chequeo corre
// desacoplado como el fetch, asi un supersede no lo corta a mitad.
func (c *Coordinator) online(ctx context.Context) bool {
	if c.connectivity == nil {
		return true
	}
	checkCtx, cancel := c.ioContext(ctx)
	defer cancel()
	return c.connectivity.IsOnline(checkCtx)
}

// ioContext desacopla la llamada remota y la escritura posterior de la
// cancelacion del caller: cancelar solo detiene la entrega de eventos.
func (c *Coordinator) ioContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
}

// ClearCache wipes every cached collection, the favorites set and the list fetch timestamp
func (c *Coordinator) ClearCache(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear local store: %w", err)
	}
	if c.meta != nil {
		if err := c.meta.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear metadata: %w", err)
		}
	}

	logging.Info(ctx, "Cache cleared", nil)
	return nil
}

// PruneBefore removes non-favorite records cached before ts
func (c *Coordinator) PruneBefore(ctx context.Context, ts time.Time) error {
	if err := c.store.PruneBefore(ctx, ts); err != nil {
		return fmt.Errorf("failed to prune records before %s: %w", ts.Format(time.RFC3339), err)
	}

	logging.Info(ctx, "Cache pruned", logging.Fields{
		"cutoff": ts.Format(time.RFC3339),
	})
	return nil
}
