package sqlite

import (
	"coinbit-sync/internal/domain/entities"
	"time"
)

// Las filas guardan el registro completo como JSON y solo indexan lo que se consulta.
// cached_at va en unix ms para comparar como entero.

type coinRow struct {
	ID            string               `gorm:"primaryKey"`
	MarketCapRank *int                 `gorm:"index"`
	CachedAt      int64                `gorm:"index"`
	Data          entities.CoinSummary `gorm:"serializer:json"`
}

func (coinRow) TableName() string { return "coins" }

type detailRow struct {
	ID       string              `gorm:"primaryKey"`
	CachedAt int64               `gorm:"index"`
	Data     entities.CoinDetail `gorm:"serializer:json"`
}

func (detailRow) TableName() string { return "coin_details" }

type chartRow struct {
	Key      string               `gorm:"primaryKey;column:chart_key"`
	CoinID   string               `gorm:"index"`
	Days     int                  `gorm:"not null"`
	CachedAt int64                `gorm:"index"`
	Data     entities.ChartSeries `gorm:"serializer:json"`
}

func (chartRow) TableName() string { return "market_charts" }

type favoriteRow struct {
	CoinID  string    `gorm:"primaryKey"`
	Created time.Time `gorm:"autoCreateTime"`
}

func (favoriteRow) TableName() string { return "favorites" }
