package strategy

import (
	"fmt"

	"token-trader/internal/config"
	"token-trader/internal/domain"
)

// TrailingStop locks in gains by trailing the peak price at a distance
// taken from a profit-tier table. Activation is a one-way latch, the
// tier number only ever increases, and the stop price never moves down.
type TrailingStop struct {
	activationPct float64
	tiers         []config.Tier // sorted by MinProfit ascending
}

// NewTrailingStop builds the engine from a validated tier table.
func NewTrailingStop(cfg config.TrailingConfig) *TrailingStop {
	return &TrailingStop{
		activationPct: cfg.ActivationPct,
		tiers:         cfg.Tiers,
	}
}

// bracket maps the current profit to a tier number (1-based) and its
// trailing distance. Profit below the first bracket, which happens on a
// pullback after activation, keeps the first bracket's distance at tier
// zero. Profit past the last bracket stays in the last bracket.
func (t *TrailingStop) bracket(profit float64) (tier int, distancePct float64) {
	for i, tr := range t.tiers {
		if profit >= tr.MinProfit && profit < tr.MaxProfit {
			return i + 1, tr.DistancePct
		}
	}
	last := t.tiers[len(t.tiers)-1]
	if profit >= last.MaxProfit {
		return len(t.tiers), last.DistancePct
	}
	return 0, t.tiers[0].DistancePct
}

// Update advances the trailing state from the position's current price
// and peak. It commits a change only when the stop would rise or the
// tier would rise; the caller persists the snapshot after a commit.
func (t *TrailingStop) Update(pos *domain.Position) (committed bool, detail string) {
	profit := pos.ProfitPct()

	if !pos.TrailingActive {
		if profit < t.activationPct {
			return false, ""
		}
		pos.TrailingActive = true
		committed = true
	}

	tier, distance := t.bracket(profit)
	newStop := pos.HighestPrice * (1 - distance/100)

	if newStop > pos.StopLossPrice {
		pos.StopLossPrice = newStop
		committed = true
	}
	if tier > pos.CurrentTier {
		pos.CurrentTier = tier
		committed = true
	}

	if !committed {
		return false, ""
	}
	return true, fmt.Sprintf("Trailing L%d stop %.10f (%.1f%% below peak)",
		pos.CurrentTier, pos.StopLossPrice, distance)
}

// ShouldExit reports whether the trailing stop fires at the current
// price. Inactive positions never exit here.
func (t *TrailingStop) ShouldExit(pos *domain.Position) (detail string, exit bool) {
	if !pos.TrailingActive || pos.StopLossPrice <= 0 {
		return "", false
	}
	if pos.CurrentPrice > pos.StopLossPrice {
		return "", false
	}
	return fmt.Sprintf("Trailing Stop L%d", pos.CurrentTier), true
}
