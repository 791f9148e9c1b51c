package coingecko

// marketCoin is one row of /coins/markets. CoinGecko sends null for many
// numeric fields on small caps, so everything optional is a pointer.
type marketCoin struct {
	ID                           string   `json:"id"`
	Symbol                       string   `json:"symbol"`
	Name                         string   `json:"name"`
	Image                        string   `json:"image"`
	CurrentPrice                 *float64 `json:"current_price"`
	MarketCap                    *float64 `json:"market_cap"`
	MarketCapRank                *int     `json:"market_cap_rank"`
	FullyDilutedValuation        *float64 `json:"fully_diluted_valuation"`
	TotalVolume                  *float64 `json:"total_volume"`
	High24h                      *float64 `json:"high_24h"`
	Low24h                       *float64 `json:"low_24h"`
	PriceChange24h               *float64 `json:"price_change_24h"`
	PriceChangePercentage24h     *float64 `json:"price_change_percentage_24h"`
	MarketCapChange24h           *float64 `json:"market_cap_change_24h"`
	MarketCapChangePercentage24h *float64 `json:"market_cap_change_percentage_24h"`
	CirculatingSupply            *float64 `json:"circulating_supply"`
	TotalSupply                  *float64 `json:"total_supply"`
	MaxSupply                    *float64 `json:"max_supply"`
	ATH                          *float64 `json:"ath"`
	ATHChangePercentage          *float64 `json:"ath_change_percentage"`
	ATHDate                      string   `json:"ath_date"`
	ATL                          *float64 `json:"atl"`
	ATLChangePercentage          *float64 `json:"atl_change_percentage"`
	ATLDate                      string   `json:"atl_date"`
	LastUpdated                  string   `json:"last_updated"`
}

// coinDetail es la respuesta de /coins/{id} con market_data=true
type coinDetail struct {
	ID            string            `json:"id"`
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	Description   map[string]string `json:"description"`
	Image         imageSet          `json:"image"`
	MarketCapRank *int              `json:"market_cap_rank"`
	MarketData    marketData        `json:"market_data"`
	Links         links             `json:"links"`
	LastUpdated   string            `json:"last_updated"`
}

type imageSet struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// marketData: los valores por moneda vienen como mapas {"usd": ...}
type marketData struct {
	CurrentPrice                 map[string]float64 `json:"current_price"`
	MarketCap                    map[string]float64 `json:"market_cap"`
	TotalVolume                  map[string]float64 `json:"total_volume"`
	High24h                      map[string]float64 `json:"high_24h"`
	Low24h                       map[string]float64 `json:"low_24h"`
	PriceChange24h               *float64           `json:"price_change_24h"`
	PriceChangePercentage24h     *float64           `json:"price_change_percentage_24h"`
	PriceChangePercentage7d      *float64           `json:"price_change_percentage_7d"`
	PriceChangePercentage14d     *float64           `json:"price_change_percentage_14d"`
	PriceChangePercentage30d     *float64           `json:"price_change_percentage_30d"`
	PriceChangePercentage60d     *float64           `json:"price_change_percentage_60d"`
	PriceChangePercentage200d    *float64           `json:"price_change_percentage_200d"`
	PriceChangePercentage1y      *float64           `json:"price_change_percentage_1y"`
	MarketCapChange24h           *float64           `json:"market_cap_change_24h"`
	MarketCapChangePercentage24h *float64           `json:"market_cap_change_percentage_24h"`
	CirculatingSupply            *float64           `json:"circulating_supply"`
	TotalSupply                  *float64           `json:"total_supply"`
	MaxSupply                    *float64           `json:"max_supply"`
	ATH                          map[string]float64 `json:"ath"`
	ATHChangePercentage          map[string]float64 `json:"ath_change_percentage"`
	ATHDate                      map[string]string  `json:"ath_date"`
	ATL                          map[string]float64 `json:"atl"`
	ATLChangePercentage          map[string]float64 `json:"atl_change_percentage"`
	ATLDate                      map[string]string  `json:"atl_date"`
}

type links struct {
	Homepage         []string `json:"homepage"`
	BlockchainSite   []string `json:"blockchain_site"`
	OfficialForumURL []string `json:"official_forum_url"`
	SubredditURL     *string  `json:"subreddit_url"`
}

// marketChart llega como pares [timestamp_ms, valor]
type marketChart struct {
	Prices       [][]float64 `json:"prices"`
	MarketCaps   [][]float64 `json:"market_caps"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}
