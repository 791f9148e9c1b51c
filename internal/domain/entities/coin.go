package entities

import (
	"sort"
	"time"
)

// CoinSummary es una fila del listado de mercado
type CoinSummary struct {
	ID                           string    `json:"id"`
	Symbol                       string    `json:"symbol"`
	Name                         string    `json:"name"`
	Image                        string    `json:"image"`
	CurrentPrice                 float64   `json:"current_price"`
	MarketCap                    float64   `json:"market_cap"`
	MarketCapRank                *int      `json:"market_cap_rank,omitempty"`
	FullyDilutedValuation        *float64  `json:"fully_diluted_valuation,omitempty"`
	TotalVolume                  float64   `json:"total_volume"`
	High24h                      *float64  `json:"high_24h,omitempty"`
	Low24h                       *float64  `json:"low_24h,omitempty"`
	PriceChange24h               *float64  `json:"price_change_24h,omitempty"`
	PriceChangePercentage24h     *float64  `json:"price_change_percentage_24h,omitempty"`
	MarketCapChange24h           *float64  `json:"market_cap_change_24h,omitempty"`
	MarketCapChangePercentage24h *float64  `json:"market_cap_change_percentage_24h,omitempty"`
	CirculatingSupply            *float64  `json:"circulating_supply,omitempty"`
	TotalSupply                  *float64  `json:"total_supply,omitempty"`
	MaxSupply                    *float64  `json:"max_supply,omitempty"`
	ATH                          *float64  `json:"ath,omitempty"`
	ATHChangePercentage          *float64  `json:"ath_change_percentage,omitempty"`
	ATHDate                      string    `json:"ath_date,omitempty"`
	ATL                          *float64  `json:"atl,omitempty"`
	ATLChangePercentage          *float64  `json:"atl_change_percentage,omitempty"`
	ATLDate                      string    `json:"atl_date,omitempty"`
	LastUpdated                  string    `json:"last_updated"`
	IsFavorite                   bool      `json:"is_favorite"`
	CachedAt                     time.Time `json:"cached_at"`
}

// Age returns how old the cached record is at now
func (c *CoinSummary) Age(now time.Time) time.Duration {
	return now.Sub(c.CachedAt)
}

// CopyCoins returns a shallow copy of the slice so callers can mutate flags freely
func CopyCoins(coins []CoinSummary) []CoinSummary {
	if coins == nil {
		return nil
	}
	out := make([]CoinSummary, len(coins))
	copy(out, coins)
	return out
}

// SortByRank orders coins by market cap rank ascending with unranked coins last.
// Ties keep their current order.
func SortByRank(coins []CoinSummary) {
	sort.SliceStable(coins, func(i, j int) bool {
		ri, rj := coins[i].MarketCapRank, coins[j].MarketCapRank
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri < *rj
		}
	})
}
