package domain

// MarketSnapshot is one synchronous poll of the market-data feed for a token.
type MarketSnapshot struct {
	PriceUSD       float64
	LiquidityUSD   float64
	Volume24h      float64
	PriceChange1h  float64 // percent
	PriceChange24h float64 // percent
	Buys24h        int64
	Sells24h       int64
}

// TickPoint is one recorded price observation for an open position,
// written to the tick history store for post-hoc analysis.
type TickPoint struct {
	TokenAddress string
	TimestampMs  int64
	Price        float64
	Liquidity    float64
	Volume24h    float64
	ProfitPct    float64
}
