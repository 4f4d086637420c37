package domain

import "time"

// Candidate is an approved token handed down by the upstream filter.
// Its market figures are discovery-time values; momentum is always
// scored from a live snapshot, so MomentumScore is filled in per
// evaluation by the selector and is not persisted.
type Candidate struct {
	TokenAddress      string    `json:"token_address"`
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	FundamentalsScore float64   `json:"fundamentals_score"` // upstream filter quality score
	Liquidity         float64   `json:"liquidity"`          // USD, at discovery time
	Volume24h         float64   `json:"volume_24h"`         // USD, at discovery time
	MarketCap         float64   `json:"market_cap"`
	Price             float64   `json:"price"` // stale discovery price, never used for entry
	CreatedAt         time.Time `json:"created_at"`

	MomentumScore float64 `json:"-"`
}
