package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"token-trader/internal/config"
	"token-trader/internal/domain"
)

func defaultWeights() config.Weights {
	return config.Defaults().Selector.Momentum
}

func TestMomentumScoreBuckets(t *testing.T) {
	tests := []struct {
		name string
		snap domain.MarketSnapshot
		want float64
	}{
		{
			name: "hot token hits every top bucket",
			snap: domain.MarketSnapshot{
				LiquidityUSD: 10000, Volume24h: 40000, // ratio 4 -> 30
				PriceChange1h:  12,  // >10 -> 15, |12|<20 -> stability 15
				PriceChange24h: 30,  // <50 -> 15
				Buys24h:        80, Sells24h: 20, // ratio 0.8 -> 25
			},
			want: 100,
		},
		{
			name: "moderate turnover and trend",
			snap: domain.MarketSnapshot{
				LiquidityUSD: 50000, Volume24h: 60000, // ratio 1.2 -> 20
				PriceChange1h:  6,  // >5 -> 12, stability 15
				PriceChange24h: 80, // 50..200 -> 10
				Buys24h:        55, Sells24h: 45, // ratio 0.55 -> 15
			},
			want: 20 + 12 + 10 + 15 + 15,
		},
		{
			name: "parabolic 24h move scores least trend",
			snap: domain.MarketSnapshot{
				LiquidityUSD: 100000, Volume24h: 35000, // ratio 0.35 -> 10
				PriceChange1h:  -30, // no 1h trend, stability |30|<40 -> 10
				PriceChange24h: 250, // >=200 -> 5
				Buys24h:        45, Sells24h: 55, // ratio 0.45 -> 10
			},
			want: 10 + 5 + 10 + 10,
		},
		{
			name: "dead token scores zero",
			snap: domain.MarketSnapshot{
				LiquidityUSD: 100000, Volume24h: 1000,
				PriceChange1h: -70, PriceChange24h: -10,
			},
			want: 0,
		},
		{
			name: "zero liquidity contributes nothing",
			snap: domain.MarketSnapshot{
				LiquidityUSD: 0, Volume24h: 999999,
				PriceChange1h: 1, PriceChange24h: 1,
				Buys24h: 10, Sells24h: 0,
			},
			want: 8 + 15 + 25 + 15,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MomentumScore(defaultWeights(), &tt.snap))
		})
	}
}

func TestMomentumScoreProportionalWeights(t *testing.T) {
	snap := domain.MarketSnapshot{
		LiquidityUSD: 10000, Volume24h: 40000, // vol/liq top bucket
	}

	w := defaultWeights()
	base := volLiqScore(&snap) // 30

	w.VolLiqCap = 15
	w.TrendCap, w.BuyPressureCap, w.StabilityCap = 0, 0, 0
	assert.Equal(t, base/2, MomentumScore(w, &snap))
}

func TestMomentumScoreCappedAt100(t *testing.T) {
	snap := domain.MarketSnapshot{
		LiquidityUSD: 10000, Volume24h: 40000,
		PriceChange1h: 12, PriceChange24h: 30,
		Buys24h: 80, Sells24h: 20,
	}
	w := config.Weights{VolLiqCap: 60, TrendCap: 60, BuyPressureCap: 50, StabilityCap: 30}
	assert.Equal(t, 100.0, MomentumScore(w, &snap))
}
