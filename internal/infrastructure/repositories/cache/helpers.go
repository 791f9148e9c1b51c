package cache

import (
	"coinbit-sync/internal/domain/entities"
	"sort"
)

// sortByRankThenID da un orden estable a colecciones sin orden propio (mapas, hashes)
func sortByRankThenID(coins []entities.CoinSummary) {
	sort.Slice(coins, func(i, j int) bool { return coins[i].ID < coins[j].ID })
	entities.SortByRank(coins)
}

func copySeries(s entities.ChartSeries) entities.ChartSeries {
	s.Prices = append([]entities.ChartPoint(nil), s.Prices...)
	s.MarketCaps = append([]entities.ChartPoint(nil), s.MarketCaps...)
	s.TotalVolumes = append([]entities.ChartPoint(nil), s.TotalVolumes...)
	return s
}
