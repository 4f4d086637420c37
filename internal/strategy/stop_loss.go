package strategy

import (
	"fmt"
	"time"

	"token-trader/internal/config"
	"token-trader/internal/domain"
)

// StopLoss is the downside guard. For a short grace period after entry a
// wide stop absorbs launch volatility; afterwards the normal tight stop
// applies. Both are expressed as positive percentages below entry.
type StopLoss struct {
	cfg config.ExitsConfig
}

// NewStopLoss builds the rule from configuration.
func NewStopLoss(cfg config.ExitsConfig) *StopLoss {
	return &StopLoss{cfg: cfg}
}

// InGrace reports whether the position is still inside the grace window.
func (s *StopLoss) InGrace(pos *domain.Position, now time.Time) bool {
	return pos.HeldFor(now) < time.Duration(s.cfg.GracePeriodMinutes)*time.Minute
}

// EffectivePct returns the stop percentage in force right now.
func (s *StopLoss) EffectivePct(pos *domain.Position, now time.Time) float64 {
	if s.InGrace(pos, now) {
		return s.cfg.GraceStopLossPct
	}
	return s.cfg.NormalStopLossPct
}

// Check reports whether the stop loss fires. The boundary is inclusive:
// profit exactly at the negative threshold closes the position.
func (s *StopLoss) Check(pos *domain.Position, now time.Time) (detail string, exit bool) {
	effective := s.EffectivePct(pos, now)
	profit := pos.ProfitPct()
	if profit > -effective {
		return "", false
	}
	label := "Stop Loss"
	if s.InGrace(pos, now) {
		label = "Grace Stop Loss"
	}
	return fmt.Sprintf("%s (%.2f%% <= -%.1f%%)", label, profit, effective), true
}
