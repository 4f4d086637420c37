package domain

import "time"

// Position represents one open trade, tracked from buy fill to sell.
// It is the unit of persistence: every mutation is followed by a full
// snapshot write keyed by token address.
type Position struct {
	TokenAddress string  `json:"token_address"`
	Symbol       string  `json:"symbol"`
	EntryPrice   float64 `json:"entry_price"`   // authoritative fill price, always > 0
	CurrentPrice float64 `json:"current_price"` // last accepted feed price
	HighestPrice float64 `json:"highest_price"` // peak since entry, never lowered
	Liquidity    float64 `json:"liquidity"`     // USD, from the last accepted snapshot
	Volume24h    float64 `json:"volume_24h"`    // USD, from the last accepted snapshot

	Amount   float64 `json:"amount"`   // token base units held
	Notional float64 `json:"notional"` // quote-currency size committed at entry

	EntryTime time.Time `json:"entry_time"`

	StopLossPrice     float64 `json:"stop_loss_price"` // monotone once trailing is active
	CurrentTier       int     `json:"current_tier"`    // trailing tier, only ever increases
	TrailingActive    bool    `json:"trailing_active"` // one-way latch
	GracePeriodActive bool    `json:"grace_period_active"`
}

// ProfitPct returns the unrealized profit in percent of entry price.
// Returns 0 for an invalid entry price rather than dividing by zero.
func (p *Position) ProfitPct() float64 {
	if p.EntryPrice <= 0 {
		return 0
	}
	return (p.CurrentPrice - p.EntryPrice) / p.EntryPrice * 100
}

// HeldFor returns how long the position has been open as of now.
func (p *Position) HeldFor(now time.Time) time.Duration {
	return now.Sub(p.EntryTime)
}

// RaiseHigh lifts HighestPrice to price if it is a new peak.
// HighestPrice is never lowered.
func (p *Position) RaiseHigh(price float64) {
	if price > p.HighestPrice {
		p.HighestPrice = price
	}
}
