package coingecko

import (
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/pkg/utils"
	"fmt"
	"sort"
)

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (m marketCoin) toEntity() entities.CoinSummary {
	return entities.CoinSummary{
		ID:                           m.ID,
		Symbol:                       m.Symbol,
		Name:                         m.Name,
		Image:                        m.Image,
		CurrentPrice:                 valueOr(m.CurrentPrice),
		MarketCap:                    valueOr(m.MarketCap),
		MarketCapRank:                m.MarketCapRank,
		FullyDilutedValuation:        m.FullyDilutedValuation,
		TotalVolume:                  valueOr(m.TotalVolume),
		High24h:                      m.High24h,
		Low24h:                       m.Low24h,
		PriceChange24h:               m.PriceChange24h,
		PriceChangePercentage24h:     m.PriceChangePercentage24h,
		MarketCapChange24h:           m.MarketCapChange24h,
		MarketCapChangePercentage24h: m.MarketCapChangePercentage24h,
		CirculatingSupply:            m.CirculatingSupply,
		TotalSupply:                  m.TotalSupply,
		MaxSupply:                    m.MaxSupply,
		ATH:                          m.ATH,
		ATHChangePercentage:          m.ATHChangePercentage,
		ATHDate:                      m.ATHDate,
		ATL:                          m.ATL,
		ATLChangePercentage:          m.ATLChangePercentage,
		ATLDate:                      m.ATLDate,
		LastUpdated:                  m.LastUpdated,
	}
}

// toEntity maps the detail payload using the currency key (usd by default)
func (d coinDetail) toEntity(currency string) *entities.CoinDetail {
	md := d.MarketData

	detail := &entities.CoinDetail{
		ID:                           d.ID,
		Symbol:                       d.Symbol,
		Name:                         d.Name,
		Description:                  utils.StripHTML(d.Description["en"]),
		Image:                        d.Image.Large,
		MarketCapRank:                d.MarketCapRank,
		CurrentPrice:                 md.CurrentPrice[currency],
		MarketCap:                    md.MarketCap[currency],
		TotalVolume:                  md.TotalVolume[currency],
		High24h:                      md.High24h[currency],
		Low24h:                       md.Low24h[currency],
		PriceChange24h:               md.PriceChange24h,
		PriceChangePercentage24h:     md.PriceChangePercentage24h,
		PriceChangePercentage7d:      md.PriceChangePercentage7d,
		PriceChangePercentage14d:     md.PriceChangePercentage14d,
		PriceChangePercentage30d:     md.PriceChangePercentage30d,
		PriceChangePercentage60d:     md.PriceChangePercentage60d,
		PriceChangePercentage200d:    md.PriceChangePercentage200d,
		PriceChangePercentage1y:      md.PriceChangePercentage1y,
		MarketCapChange24h:           md.MarketCapChange24h,
		MarketCapChangePercentage24h: md.MarketCapChangePercentage24h,
		CirculatingSupply:            md.CirculatingSupply,
		TotalSupply:                  md.TotalSupply,
		MaxSupply:                    md.MaxSupply,
		ATH:                          md.ATH[currency],
		ATHChangePercentage:          md.ATHChangePercentage[currency],
		ATHDate:                      md.ATHDate[currency],
		ATL:                          md.ATL[currency],
		ATLChangePercentage:          md.ATLChangePercentage[currency],
		ATLDate:                      md.ATLDate[currency],
		Links: entities.CoinLinks{
			Homepage:         utils.NonBlank(d.Links.Homepage),
			BlockchainSite:   utils.NonBlank(d.Links.BlockchainSite),
			OfficialForumURL: utils.NonBlank(d.Links.OfficialForumURL),
		},
		LastUpdated: d.LastUpdated,
	}
	if d.Links.SubredditURL != nil {
		detail.Links.SubredditURL = *d.Links.SubredditURL
	}
	return detail
}

func toPoints(raw [][]float64) ([]entities.ChartPoint, error) {
	points := make([]entities.ChartPoint, 0, len(raw))
	for i, pair := range raw {
		if len(pair) < 2 {
			return nil, fmt.Errorf("%w: point %d has %d values", ErrMalformedPayload, i, len(pair))
		}
		points = append(points, entities.ChartPoint{Timestamp: int64(pair[0]), Value: pair[1]})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })
	return points, nil
}

func (c marketChart) toEntity(coinID string, days int) (*entities.ChartSeries, error) {
	prices, err := toPoints(c.Prices)
	if err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	caps, err := toPoints(c.MarketCaps)
	if err != nil {
		return nil, fmt.Errorf("market_caps: %w", err)
	}
	volumes, err := toPoints(c.TotalVolumes)
	if err != nil {
		return nil, fmt.Errorf("total_volumes: %w", err)
	}

	return &entities.ChartSeries{
		CoinID:       coinID,
		Days:         days,
		Prices:       prices,
		MarketCaps:   caps,
		TotalVolumes: volumes,
	}, nil
}
