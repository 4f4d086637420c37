package domain

import "time"

// TradeRecord is one round trip in the ledger: created at buy with exit
// fields unset, completed in place at sell. The ledger is authoritative
// for closed trades only; open state lives in position snapshots.
type TradeRecord struct {
	TradeID      string // deterministic hash, see idhash
	TokenAddress string
	Symbol       string
	Side         string // BUY
	AmountIn     float64
	AmountOut    *float64 // nil while the position is open
	Price        float64  // entry fill price
	EntryTime    time.Time
	ExitTime     *time.Time // nil while the position is open
	ProfitLoss   *float64   // percent, nil while the position is open
	ExitReason   string     // empty while the position is open
}

// Trade sides
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Exit reason codes. Time exits are checked before the stop loss,
// which is checked before the trailing stop.
const (
	ExitReasonStagnation   = "STAGNATION"
	ExitReasonLowMomentum  = "LOW_MOMENTUM"
	ExitReasonMaxHold      = "MAX_HOLD"
	ExitReasonEmergency    = "EMERGENCY"
	ExitReasonStopLoss     = "STOP_LOSS"
	ExitReasonTrailingStop = "TRAILING_STOP"
	ExitReasonManual       = "MANUAL"
)
