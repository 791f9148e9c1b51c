// Package app arma el grafo de dependencias a partir de la configuracion
package app

import (
	"coinbit-sync/internal/application/freshness"
	"coinbit-sync/internal/application/services"
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/clock"
	"coinbit-sync/internal/infrastructure/config"
	"coinbit-sync/internal/infrastructure/connectivity"
	"coinbit-sync/internal/infrastructure/events"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/internal/infrastructure/metrics"
	"coinbit-sync/internal/infrastructure/ratelimit"
	"coinbit-sync/internal/infrastructure/remote"
	"coinbit-sync/internal/infrastructure/remote/coingecko"
	"coinbit-sync/internal/infrastructure/repositories/cache"
	"coinbit-sync/internal/infrastructure/web/handlers"
	"coinbit-sync/internal/infrastructure/web/server"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
)

// Version is overridden at build time with -ldflags "-X coinbit-sync/internal/app.Version=..."
var Version = "1.0.0"

// App represents the main application
type App struct {
	cfg   *config.Config
	clock interfaces.Clock

	bus         *events.Bus
	stores      *cache.Stores
	remote      interfaces.RemoteSource
	checker     interfaces.ConnectivityChecker
	monitor     *connectivity.Monitor
	coordinator *services.Coordinator
	janitor     *services.Janitor
	server      *server.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		cfg:    cfg,
		clock:  clock.New(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// InitLogging configura los loggers globales desde la seccion logging
func InitLogging(cfg config.LoggingConfig, environment string, out io.Writer) error {
	logCfg := logging.NewConfig("coinbit-sync", Version, environment).
		WithLevel(logging.LogLevelFromString(cfg.Level)).
		WithFormat(logging.LogFormatFromString(cfg.Format)).
		WithOutput(out).
		WithSource(cfg.AddSource)
	return logging.InitializeGlobalLoggers(logCfg)
}

// Initialize construye stores, fuente remota, conectividad y el coordinador
func (a *App) Initialize(ctx context.Context) error {
	a.bus = events.NewBus()

	stores, err := cache.NewFactory(a.bus).Create(ctx, a.cfg.Store, a.cfg.Prefs)
	if err != nil {
		return fmt.Errorf("failed to create stores: %w", err)
	}
	a.stores = stores

	a.remote = a.buildRemote(ctx)
	a.checker = a.buildChecker(ctx)

	a.coordinator = services.NewCoordinator(services.Deps{
		Remote:       a.remote,
		Store:        stores.Local,
		Meta:         stores.Metadata,
		Connectivity: a.checker,
		Clock:        a.clock,
		Policy: freshness.NewPolicy(freshness.Windows{
			List:   a.cfg.Freshness.ListWindow,
			Detail: a.cfg.Freshness.DetailWindow,
			Chart:  a.cfg.Freshness.ChartWindow,
		}),
		Feed:         a.bus,
		FetchTimeout: a.cfg.Sync.FetchTimeout,
	})

	if a.cfg.Janitor.Enabled {
		a.janitor = services.NewJanitor(a.coordinator, a.clock, a.cfg.Janitor.Interval, a.cfg.Janitor.MaxAge)
	}

	metrics.SetApplicationInfo(Version, a.cfg.Store.Backend, runtime.Version())

	logging.Info(ctx, "Application initialized", logging.Fields{
		logging.FieldCacheBackend: a.cfg.Store.Backend,
		"prefs_backend":           a.cfg.Prefs.Backend,
		"mock_mode":               a.cfg.CoinGecko.MockMode,
		"janitor":                 a.cfg.Janitor.Enabled,
	})
	return nil
}

func (a *App) buildRemote(ctx context.Context) interfaces.RemoteSource {
	if a.cfg.CoinGecko.MockMode {
		logging.Warn(ctx, "CoinGecko mock mode enabled, serving generated data", nil)
		return remote.NewMockSource()
	}

	var opts []coingecko.Option
	rl := a.cfg.RateLimit
	if rl.Enabled {
		bucket := ratelimit.NewTokenBucketWithPeriod(rl.Capacity, rl.RefillTokens, rl.RefillPeriod, a.clock)
		opts = append(opts,
			coingecko.WithRateLimiter(bucket, rl.MaxWait),
			coingecko.WithCallCounter(ratelimit.NewCallCounter(rl.WarnThreshold, rl.WindowLimit, rl.Window, a.clock)),
		)
	}
	return coingecko.NewClient(a.cfg.CoinGecko, opts...)
}

func (a *App) buildChecker(ctx context.Context) interfaces.ConnectivityChecker {
	if a.cfg.Connectivity.AssumeOnline {
		logging.Info(ctx, "Connectivity probe disabled, assuming online", nil)
		return connectivity.Static(true)
	}

	checker := connectivity.NewHTTPChecker(a.cfg.Connectivity)
	a.monitor = connectivity.NewMonitor(checker, a.cfg.Connectivity.MonitorInterval)
	return checker
}

// Sync returns the coordinator used by commands and handlers
func (a *App) Sync() *services.Coordinator {
	return a.coordinator
}

func (a *App) Config() *config.Config {
	return a.cfg
}

// StartBackground arranca el monitor de conectividad y el janitor si existen
func (a *App) StartBackground() {
	if a.monitor != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.monitor.Run(a.ctx)
		}()
	}
	if a.janitor != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.janitor.Run(a.ctx)
		}()
	}
}

// BuildServer builds the HTTP router and server over the coordinator
func (a *App) BuildServer() (*server.Server, error) {
	if a.coordinator == nil {
		return nil, errors.New("application not initialized")
	}

	router := server.NewRouter(server.Handlers{
		Coins:  handlers.NewCoinHandler(a.coordinator),
		Health: handlers.NewHealthHandler(a.stores.Local, a.checker),
		Stream: handlers.NewStreamHandler(a.coordinator, a.cfg.Server.CORSOrigins),
	}, a.cfg)

	a.server = server.NewServer(router, a.cfg.Server)
	return a.server, nil
}

// Stop apaga el server, espera las goroutines de fondo y cierra los stores
func (a *App) Stop(ctx context.Context) error {
	var errs []error

	if a.server != nil {
		if err := a.server.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	a.cancel()
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("background workers: %w", ctx.Err()))
	}

	if a.stores != nil {
		if err := a.stores.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stores: %w", err))
		}
	}

	return errors.Join(errs...)
}
