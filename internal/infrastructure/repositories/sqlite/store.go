// Package sqlite is the default on-disk LocalStore, built on gorm over the
// pure-Go glebarez SQLite driver.
package sqlite

import (
	"coinbit-sync/internal/domain/entities"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const batchSize = 100

// Store implementa interfaces.LocalStore sobre SQLite
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if err := db.AutoMigrate(&coinRow{}, &detailRow{}, &chartRow{}, &favoriteRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) favoriteSet(ctx context.Context) (map[string]bool, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&favoriteRow{}).Pluck("coin_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// GetCoins ordena por rank ascendente con los sin rank al final
func (s *Store) GetCoins(ctx context.Context) ([]entities.CoinSummary, error) {
	var rows []coinRow
	err := s.db.WithContext(ctx).
		Order("market_cap_rank IS NULL").
		Order("market_cap_rank ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get coins: %w", err)
	}

	favorites, err := s.favoriteSet(ctx)
	if err != nil {
		return nil, err
	}

	coins := make([]entities.CoinSummary, 0, len(rows))
	for _, row := range rows {
		c := row.Data
		c.IsFavorite = favorites[c.ID]
		coins = append(coins, c)
	}
	return coins, nil
}

func (s *Store) PutCoins(ctx context.Context, coins []entities.CoinSummary) error {
	if len(coins) == 0 {
		return nil
	}

	rows := make([]coinRow, 0, len(coins))
	for _, c := range coins {
		c.IsFavorite = false
		c.CachedAt = c.CachedAt.UTC()
		rows = append(rows, coinRow{ID: c.ID, MarketCapRank: c.MarketCapRank, CachedAt: c.CachedAt.UnixMilli(), Data: c})
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, batchSize).Error
	if err != nil {
		return fmt.Errorf("put coins: %w", err)
	}
	return nil
}

func (s *Store) GetCoin(ctx context.Context, coinID string) (*entities.CoinSummary, error) {
	var row coinRow
	if err := s.first(ctx, &row, "id = ?", coinID); err != nil {
		return nil, err
	}
	fav, err := s.IsFavorite(ctx, coinID)
	if err != nil {
		return nil, err
	}
	c := row.Data
	c.IsFavorite = fav
	return &c, nil
}

func (s *Store) GetDetail(ctx context.Context, coinID string) (*entities.CoinDetail, error) {
	var row detailRow
	if err := s.first(ctx, &row, "id = ?", coinID); err != nil {
		return nil, err
	}
	fav, err := s.IsFavorite(ctx, coinID)
	if err != nil {
		return nil, err
	}
	return row.Data.WithFavorite(fav), nil
}

func (s *Store) PutDetail(ctx context.Context, detail *entities.CoinDetail) error {
	d := *detail
	d.IsFavorite = false
	d.CachedAt = d.CachedAt.UTC()

	row := detailRow{ID: d.ID, CachedAt: d.CachedAt.UnixMilli(), Data: d}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("put detail %s: %w", d.ID, err)
	}
	return nil
}

func (s *Store) GetChart(ctx context.Context, key string) (*entities.ChartSeries, error) {
	var row chartRow
	if err := s.first(ctx, &row, "chart_key = ?", key); err != nil {
		return nil, err
	}
	series := row.Data
	return &series, nil
}

func (s *Store) PutChart(ctx context.Context, key string, series *entities.ChartSeries) error {
	data := *series
	data.CachedAt = data.CachedAt.UTC()

	row := chartRow{Key: key, CoinID: data.CoinID, Days: data.Days, CachedAt: data.CachedAt.UnixMilli(), Data: data}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("put chart %s: %w", key, err)
	}
	return nil
}

func (s *Store) first(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := s.db.WithContext(ctx).Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("sqlite lookup: %w", err)
	}
	return nil
}

func (s *Store) IsFavorite(ctx context.Context, coinID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&favoriteRow{}).Where("coin_id = ?", coinID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("is favorite %s: %w", coinID, err)
	}
	return count > 0, nil
}

func (s *Store) SetFavorite(ctx context.Context, coinID string, favorite bool) error {
	db := s.db.WithContext(ctx)

	var err error
	if favorite {
		err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favoriteRow{CoinID: coinID}).Error
	} else {
		err = db.Where("coin_id = ?", coinID).Delete(&favoriteRow{}).Error
	}
	if err != nil {
		return fmt.Errorf("set favorite %s: %w", coinID, err)
	}
	return nil
}

func (s *Store) FavoriteIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&favoriteRow{}).Order("coin_id").Pluck("coin_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("favorite ids: %w", err)
	}
	return ids, nil
}

// PruneBefore borra en una transaccion los registros viejos que no son favoritos
func (s *Store) PruneBefore(ctx context.Context, ts time.Time) error {
	cutoff := ts.UnixMilli()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		favorites := tx.Model(&favoriteRow{}).Select("coin_id")

		if err := tx.Where("cached_at < ? AND id NOT IN (?)", cutoff, favorites).Delete(&coinRow{}).Error; err != nil {
			return fmt.Errorf("prune coins: %w", err)
		}
		if err := tx.Where("cached_at < ? AND id NOT IN (?)", cutoff, favorites).Delete(&detailRow{}).Error; err != nil {
			return fmt.Errorf("prune details: %w", err)
		}
		if err := tx.Where("cached_at < ? AND coin_id NOT IN (?)", cutoff, favorites).Delete(&chartRow{}).Error; err != nil {
			return fmt.Errorf("prune charts: %w", err)
		}
		return nil
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&coinRow{}, &detailRow{}, &chartRow{}, &favoriteRow{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clear: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
