package strategy

import (
	"fmt"
	"time"

	"token-trader/internal/config"
	"token-trader/internal/domain"
)

// TimeExit closes positions that have been held too long. Four rungs:
// stagnation and low-momentum only fire on small positive profit, the
// maximum and emergency rungs fire unconditionally. A losing position is
// never closed by the profit-gated rungs; the stop loss owns the
// downside.
type TimeExit struct {
	cfg config.ExitsConfig
}

// NewTimeExit builds the rule set from configuration.
func NewTimeExit(cfg config.ExitsConfig) *TimeExit {
	return &TimeExit{cfg: cfg}
}

// Check reports whether the position is due for a time-based exit.
// Rungs are evaluated shortest hold first, so the earliest applicable
// reason wins.
func (t *TimeExit) Check(pos *domain.Position, now time.Time) (reason, detail string, exit bool) {
	held := pos.HeldFor(now)
	profit := pos.ProfitPct()

	if held >= hours(t.cfg.StagnationHours) && profit > 0 && profit < t.cfg.StagnationMinProfit {
		return domain.ExitReasonStagnation,
			fmt.Sprintf("Stagnation Exit (%dh, %+.2f%%)", t.cfg.StagnationHours, profit), true
	}
	if held >= hours(t.cfg.LowMomentumHours) && profit > 0 && profit < t.cfg.LowMomentumMinProfit {
		return domain.ExitReasonLowMomentum,
			fmt.Sprintf("Low Momentum Exit (%dh, %+.2f%%)", t.cfg.LowMomentumHours, profit), true
	}
	if held >= hours(t.cfg.MaxHoldHours) && held < hours(t.cfg.EmergencyHours) {
		return domain.ExitReasonMaxHold,
			fmt.Sprintf("Maximum Hold Exit (%dh)", t.cfg.MaxHoldHours), true
	}
	if held >= hours(t.cfg.EmergencyHours) {
		return domain.ExitReasonEmergency,
			fmt.Sprintf("Emergency Exit (%dh)", t.cfg.EmergencyHours), true
	}
	return "", "", false
}

func hours(h int) time.Duration {
	return time.Duration(h) * time.Hour
}
