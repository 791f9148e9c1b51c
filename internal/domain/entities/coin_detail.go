package entities

import "time"

// CoinLinks agrupa los enlaces externos de una moneda
type CoinLinks struct {
	Homepage         []string `json:"homepage"`
	BlockchainSite   []string `json:"blockchain_site"`
	OfficialForumURL []string `json:"official_forum_url"`
	SubredditURL     string   `json:"subreddit_url,omitempty"`
}

// CoinDetail contiene la vista completa de una moneda
type CoinDetail struct {
	ID                           string    `json:"id"`
	Symbol                       string    `json:"symbol"`
	Name                         string    `json:"name"`
	Description                  string    `json:"description"`
	Image                        string    `json:"image"`
	MarketCapRank                *int      `json:"market_cap_rank,omitempty"`
	CurrentPrice                 float64   `json:"current_price"`
	MarketCap                    float64   `json:"market_cap"`
	TotalVolume                  float64   `json:"total_volume"`
	High24h                      float64   `json:"high_24h"`
	Low24h                       float64   `json:"low_24h"`
	PriceChange24h               *float64  `json:"price_change_24h,omitempty"`
	PriceChangePercentage24h     *float64  `json:"price_change_percentage_24h,omitempty"`
	PriceChangePercentage7d      *float64  `json:"price_change_percentage_7d,omitempty"`
	PriceChangePercentage14d     *float64  `json:"price_change_percentage_14d,omitempty"`
	PriceChangePercentage30d     *float64  `json:"price_change_percentage_30d,omitempty"`
	PriceChangePercentage60d     *float64  `json:"price_change_percentage_60d,omitempty"`
	PriceChangePercentage200d    *float64  `json:"price_change_percentage_200d,omitempty"`
	PriceChangePercentage1y      *float64  `json:"price_change_percentage_1y,omitempty"`
	MarketCapChange24h           *float64  `json:"market_cap_change_24h,omitempty"`
	MarketCapChangePercentage24h *float64  `json:"market_cap_change_percentage_24h,omitempty"`
	CirculatingSupply            *float64  `json:"circulating_supply,omitempty"`
	TotalSupply                  *float64  `json:"total_supply,omitempty"`
	MaxSupply                    *float64  `json:"max_supply,omitempty"`
	ATH                          float64   `json:"ath"`
	ATHChangePercentage          float64   `json:"ath_change_percentage"`
	ATHDate                      string    `json:"ath_date"`
	ATL                          float64   `json:"atl"`
	ATLChangePercentage          float64   `json:"atl_change_percentage"`
	ATLDate                      string    `json:"atl_date"`
	Links                        CoinLinks `json:"links"`
	LastUpdated                  string    `json:"last_updated"`
	IsFavorite                   bool      `json:"is_favorite"`
	CachedAt                     time.Time `json:"cached_at"`
}

// WithFavorite returns a copy of the detail with the favorite flag overlaid
func (d CoinDetail) WithFavorite(favorite bool) *CoinDetail {
	d.IsFavorite = favorite
	return &d
}
