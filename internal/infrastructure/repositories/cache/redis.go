package cache

import (
	"coinbit-sync/internal/domain/entities"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client the store needs
type redisClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore guarda cada coleccion en un hash (id -> JSON) y los favoritos en un set
type RedisStore struct {
	client redisClient
	prefix string
}

// NewRedisStore creates a store on a new client
func NewRedisStore(addr, password string, db int, prefix string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreWithClient(rdb, prefix)
}

// NewRedisStoreWithClient creates a store with an existing client
func NewRedisStoreWithClient(client redisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) coinsKey() string     { return r.prefix + "coins" }
func (r *RedisStore) detailsKey() string   { return r.prefix + "details" }
func (r *RedisStore) chartsKey() string    { return r.prefix + "charts" }
func (r *RedisStore) favoritesKey() string { return r.prefix + "favorites" }

func (r *RedisStore) favoriteSet(ctx context.Context) (map[string]bool, error) {
	ids, err := r.client.SMembers(ctx, r.favoritesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis favorites: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *RedisStore) GetCoins(ctx context.Context) ([]entities.CoinSummary, error) {
	raw, err := r.client.HGetAll(ctx, r.coinsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get coins: %w", err)
	}
	favorites, err := r.favoriteSet(ctx)
	if err != nil {
		return nil, err
	}

	coins := make([]entities.CoinSummary, 0, len(raw))
	for id, value := range raw {
		var c entities.CoinSummary
		if err := json.Unmarshal([]byte(value), &c); err != nil {
			return nil, fmt.Errorf("redis decode coin %s: %w", id, err)
		}
		c.IsFavorite = favorites[c.ID]
		coins = append(coins, c)
	}
	sortByRankThenID(coins)
	return coins, nil
}

func (r *RedisStore) PutCoins(ctx context.Context, coins []entities.CoinSummary) error {
	if len(coins) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(coins)*2)
	for _, c := range coins {
		c.IsFavorite = false
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("redis encode coin %s: %w", c.ID, err)
		}
		values = append(values, c.ID, string(data))
	}
	if err := r.client.HSet(ctx, r.coinsKey(), values...).Err(); err != nil {
		return fmt.Errorf("redis put coins: %w", err)
	}
	return nil
}

// hget decodifica un campo JSON; redis.Nil se traduce a ErrNotFound
func (r *RedisStore) hget(ctx context.Context, key, field string, out interface{}) error {
	value, err := r.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return entities.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis hget %s/%s: %w", key, field, err)
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("redis decode %s/%s: %w", key, field, err)
	}
	return nil
}

func (r *RedisStore) hset(ctx context.Context, key, field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis encode %s/%s: %w", key, field, err)
	}
	if err := r.client.HSet(ctx, key, field, string(data)).Err(); err != nil {
		return fmt.Errorf("redis hset %s/%s: %w", key, field, err)
	}
	return nil
}

func (r *RedisStore) GetCoin(ctx context.Context, coinID string) (*entities.CoinSummary, error) {
	var c entities.CoinSummary
	if err := r.hget(ctx, r.coinsKey(), coinID, &c); err != nil {
		return nil, err
	}
	fav, err := r.IsFavorite(ctx, coinID)
	if err != nil {
		return nil, err
	}
	c.IsFavorite = fav
	return &c, nil
}

func (r *RedisStore) GetDetail(ctx context.Context, coinID string) (*entities.CoinDetail, error) {
	var d entities.CoinDetail
	if err := r.hget(ctx, r.detailsKey(), coinID, &d); err != nil {
		return nil, err
	}
	fav, err := r.IsFavorite(ctx, coinID)
	if err != nil {
		return nil, err
	}
	return d.WithFavorite(fav), nil
}

func (r *RedisStore) PutDetail(ctx context.Context, detail *entities.CoinDetail) error {
	d := *detail
	d.IsFavorite = false
	return r.hset(ctx, r.detailsKey(), d.ID, d)
}

func (r *RedisStore) GetChart(ctx context.Context, key string) (*entities.ChartSeries, error) {
	var s entities.ChartSeries
	if err := r.hget(ctx, r.chartsKey(), key, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) PutChart(ctx context.Context, key string, series *entities.ChartSeries) error {
	return r.hset(ctx, r.chartsKey(), key, series)
}

func (r *RedisStore) IsFavorite(ctx context.Context, coinID string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, r.favoritesKey(), coinID).Result()
	if err != nil {
		return false, fmt.Errorf("redis is favorite: %w", err)
	}
	return ok, nil
}

func (r *RedisStore) SetFavorite(ctx context.Context, coinID string, favorite bool) error {
	var err error
	if favorite {
		err = r.client.SAdd(ctx, r.favoritesKey(), coinID).Err()
	} else {
		err = r.client.SRem(ctx, r.favoritesKey(), coinID).Err()
	}
	if err != nil {
		return fmt.Errorf("redis set favorite: %w", err)
	}
	return nil
}

func (r *RedisStore) FavoriteIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.favoritesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis favorites: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// cachedRecord lee solo lo necesario para decidir la poda
type cachedRecord struct {
	ID       string    `json:"id"`
	CoinID   string    `json:"coin_id"`
	CachedAt time.Time `json:"cached_at"`
}

func (r *RedisStore) PruneBefore(ctx context.Context, ts time.Time) error {
	favorites, err := r.favoriteSet(ctx)
	if err != nil {
		return err
	}

	for _, key := range []string{r.coinsKey(), r.detailsKey(), r.chartsKey()} {
		raw, err := r.client.HGetAll(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("redis prune scan %s: %w", key, err)
		}

		var stale []string
		for field, value := range raw {
			var rec cachedRecord
			if err := json.Unmarshal([]byte(value), &rec); err != nil {
				return fmt.Errorf("redis decode %s/%s: %w", key, field, err)
			}
			owner := rec.ID
			if rec.CoinID != "" {
				owner = rec.CoinID
			}
			if rec.CachedAt.Before(ts) && !favorites[owner] {
				stale = append(stale, field)
			}
		}

		if len(stale) > 0 {
			if err := r.client.HDel(ctx, key, stale...).Err(); err != nil {
				return fmt.Errorf("redis prune %s: %w", key, err)
			}
		}
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	err := r.client.Del(ctx, r.coinsKey(), r.detailsKey(), r.chartsKey(), r.favoritesKey()).Err()
	if err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}

// Ping checks if Redis connection is alive
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
