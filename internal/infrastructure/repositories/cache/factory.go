package cache

import (
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/internal/infrastructure/config"
	"coinbit-sync/internal/infrastructure/logging"
	"coinbit-sync/internal/infrastructure/repositories/prefs"
	"coinbit-sync/internal/infrastructure/repositories/sqlite"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted by store.backend and prefs.backend
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBolt   = "bolt"
)

var ErrUnsupportedBackend = errors.New("unsupported backend")

// Stores agrupa lo que construye la factory; Close libera todo
type Stores struct {
	Local    *ObservedStore
	Metadata interfaces.MetadataStore
	// cliente redis usado solo por prefs
	sharedRedis *redis.Client
}

func (s *Stores) Close() error {
	errs := []error{s.Metadata.Close(), s.Local.Close()}
	if s.sharedRedis != nil {
		errs = append(errs, s.sharedRedis.Close())
	}
	return errors.Join(errs...)
}

// Factory provides methods to create store instances
type Factory struct {
	publisher Publisher
}

func NewFactory(publisher Publisher) *Factory {
	return &Factory{publisher: publisher}
}

// Create builds the local store and the metadata store from configuration
func (f *Factory) Create(ctx context.Context, storeCfg config.StoreConfig, prefsCfg config.PrefsConfig) (*Stores, error) {
	var rdb *redis.Client
	if storeCfg.Backend == BackendRedis || prefsCfg.Backend == BackendRedis {
		client, err := f.connectRedis(ctx, storeCfg.Redis)
		if err != nil {
			return nil, err
		}
		rdb = client
	}

	local, err := f.createLocal(storeCfg, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, err
	}

	meta, err := f.createMetadata(prefsCfg, storeCfg.Redis, rdb)
	if err != nil {
		_ = local.Close()
		if rdb != nil && storeCfg.Backend != BackendRedis {
			_ = rdb.Close()
		}
		return nil, err
	}

	logging.Info(ctx, "Stores created", logging.Fields{
		logging.FieldCacheBackend: storeCfg.Backend,
		"prefs_backend":           prefsCfg.Backend,
	})

	stores := &Stores{
		Local:    NewObservedStore(local, storeCfg.Backend, f.publisher),
		Metadata: meta,
	}
	if rdb != nil && storeCfg.Backend != BackendRedis {
		stores.sharedRedis = rdb
	}
	return stores, nil
}

func (f *Factory) createLocal(cfg config.StoreConfig, rdb *redis.Client) (interfaces.LocalStore, error) {
	switch cfg.Backend {
	case BackendSQLite:
		return sqlite.Open(cfg.SQLite.Path)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStoreWithClient(rdb, cfg.Redis.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("%w: store %q", ErrUnsupportedBackend, cfg.Backend)
	}
}

func (f *Factory) createMetadata(cfg config.PrefsConfig, redisCfg config.RedisConfig, rdb *redis.Client) (interfaces.MetadataStore, error) {
	switch cfg.Backend {
	case BackendBolt:
		return prefs.OpenBolt(cfg.Path)
	case BackendMemory:
		return prefs.NewMemoryStore(), nil
	case BackendRedis:
		return prefs.NewRedisStore(rdb, redisCfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("%w: prefs %q", ErrUnsupportedBackend, cfg.Backend)
	}
}

// connectRedis creates the client and tests the connection
func (f *Factory) connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	logging.Info(ctx, "Redis connection established successfully", logging.Fields{
		"addr":     cfg.Addr,
		"database": cfg.DB,
	})
	return rdb, nil
}
