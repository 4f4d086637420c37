package selector

import (
	"token-trader/internal/config"
	"token-trader/internal/domain"
)

// Reference caps the bucket awards below are written against. A custom
// cap scales its component's awards proportionally.
const (
	refVolLiqCap      = 30.0
	refTrendCap       = 30.0
	refBuyPressureCap = 25.0
	refStabilityCap   = 15.0
)

// MomentumScore rates a token's short-term momentum on a 0..100 scale
// from a live market snapshot. Four components: volume/liquidity
// turnover, price trend, buy pressure, and 1h stability.
func MomentumScore(w config.Weights, snap *domain.MarketSnapshot) float64 {
	score := volLiqScore(snap) * w.VolLiqCap / refVolLiqCap
	score += trendScore(snap) * w.TrendCap / refTrendCap
	score += buyPressureScore(snap) * w.BuyPressureCap / refBuyPressureCap
	score += stabilityScore(snap) * w.StabilityCap / refStabilityCap

	if score > 100 {
		score = 100
	}
	return score
}

func volLiqScore(snap *domain.MarketSnapshot) float64 {
	if snap.LiquidityUSD <= 0 {
		return 0
	}
	ratio := snap.Volume24h / snap.LiquidityUSD
	switch {
	case ratio > 3:
		return 30
	case ratio > 1.5:
		return 25
	case ratio > 0.8:
		return 20
	case ratio > 0.3:
		return 10
	default:
		return 0
	}
}

func trendScore(snap *domain.MarketSnapshot) float64 {
	var s float64
	switch {
	case snap.PriceChange1h > 10:
		s = 15
	case snap.PriceChange1h > 5:
		s = 12
	case snap.PriceChange1h > 0:
		s = 8
	}
	// a 24h move that is large but not parabolic still counts
	switch {
	case snap.PriceChange24h > 0 && snap.PriceChange24h < 50:
		s += 15
	case snap.PriceChange24h >= 50 && snap.PriceChange24h < 200:
		s += 10
	case snap.PriceChange24h >= 200:
		s += 5
	}
	return s
}

func buyPressureScore(snap *domain.MarketSnapshot) float64 {
	total := snap.Buys24h + snap.Sells24h
	if total == 0 {
		return 0
	}
	ratio := float64(snap.Buys24h) / float64(total)
	switch {
	case ratio > 0.7:
		return 25
	case ratio > 0.6:
		return 20
	case ratio > 0.5:
		return 15
	case ratio > 0.4:
		return 10
	default:
		return 0
	}
}

func stabilityScore(snap *domain.MarketSnapshot) float64 {
	abs := snap.PriceChange1h
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 20:
		return 15
	case abs < 40:
		return 10
	case abs < 60:
		return 5
	default:
		return 0
	}
}
