package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"token-trader/internal/config"
	"token-trader/internal/domain"
)

var now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

// position builds an open position with the given age and profit.
func position(heldFor time.Duration, profitPct float64) *domain.Position {
	entry := 0.001
	return &domain.Position{
		TokenAddress: "tok",
		EntryPrice:   entry,
		CurrentPrice: entry * (1 + profitPct/100),
		HighestPrice: entry,
		EntryTime:    now.Add(-heldFor),
	}
}

func TestTimeExitRungs(t *testing.T) {
	te := NewTimeExit(config.Defaults().Exits)

	tests := []struct {
		name       string
		held       time.Duration
		profit     float64
		wantReason string
	}{
		{"young position untouched", 23 * time.Hour, 3, ""},
		{"stagnation at 24h small profit", 24 * time.Hour, 3, domain.ExitReasonStagnation},
		{"stagnation spares losers", 24 * time.Hour, -2, ""},
		{"stagnation spares enough profit", 24 * time.Hour, 6, ""},
		{"low momentum at 48h", 48 * time.Hour, 10, domain.ExitReasonLowMomentum},
		{"low momentum spares losers", 48 * time.Hour, -5, ""},
		{"low momentum spares big winners", 48 * time.Hour, 25, ""},
		{"max hold is unconditional", 72 * time.Hour, -50, domain.ExitReasonMaxHold},
		{"max hold fires on winners too", 72 * time.Hour, 400, domain.ExitReasonMaxHold},
		{"emergency past its rung", 120 * time.Hour, 500, domain.ExitReasonEmergency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, detail, exit := te.Check(position(tt.held, tt.profit), now)
			if tt.wantReason == "" {
				assert.False(t, exit)
				return
			}
			assert.True(t, exit)
			assert.Equal(t, tt.wantReason, reason)
			assert.NotEmpty(t, detail)
		})
	}
}

func TestTimeExitEarliestRungWins(t *testing.T) {
	te := NewTimeExit(config.Defaults().Exits)

	// at 80h with +3% both stagnation and max-hold apply;
	// the shortest qualifying rung names the exit
	reason, _, exit := te.Check(position(80*time.Hour, 3), now)
	assert.True(t, exit)
	assert.Equal(t, domain.ExitReasonStagnation, reason)
}
