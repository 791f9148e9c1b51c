package entities

import (
	"fmt"
	"time"
)

// ChartPoint es un punto (timestamp en ms, valor) de una serie
type ChartPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// ChartSeries holds the three parallel series for one (coin, days) pair
type ChartSeries struct {
	CoinID       string       `json:"coin_id"`
	Days         int          `json:"days"`
	Prices       []ChartPoint `json:"prices"`
	MarketCaps   []ChartPoint `json:"market_caps"`
	TotalVolumes []ChartPoint `json:"total_volumes"`
	CachedAt     time.Time    `json:"cached_at"`
}

// ChartKey builds the composite cache key for a chart entry
func ChartKey(coinID string, days int) string {
	return fmt.Sprintf("%s_%d", coinID, days)
}

// Key returns the cache key of the series
func (s *ChartSeries) Key() string {
	return ChartKey(s.CoinID, s.Days)
}

// TimeRange es un rango predefinido para los graficos
type TimeRange struct {
	Days  int    `json:"days"`
	Label string `json:"label"`
}

var (
	RangeDay   = TimeRange{Days: 1, Label: "24H"}
	RangeWeek  = TimeRange{Days: 7, Label: "7D"}
	RangeMonth = TimeRange{Days: 30, Label: "30D"}
	RangeYear  = TimeRange{Days: 365, Label: "1Y"}
)

// TimeRanges returns the presets in display order
func TimeRanges() []TimeRange {
	return []TimeRange{RangeDay, RangeWeek, RangeMonth, RangeYear}
}
