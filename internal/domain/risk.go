package domain

// Risk level codes reported by the honeypot/tax oracle.
const (
	RiskLevelLow      = "LOW"
	RiskLevelMedium   = "MEDIUM"
	RiskLevelHigh     = "HIGH"
	RiskLevelCritical = "CRITICAL"
)

// MaxTaxPct is the highest buy or sell tax a token may carry and still
// be tradable. Taxes at or above it are treated as unsafe regardless of
// the oracle's summary level.
const MaxTaxPct = 10.0

// RiskReport is the result of a pre-trade honeypot/tax check.
// A provider failure is represented by the checker's error return,
// never by a RiskReport: unknown is not unsafe.
type RiskReport struct {
	IsHoneypot bool
	CanSell    bool
	BuyTaxPct  float64
	SellTaxPct float64
	RiskLevel  string
	Flags      []string
}

// Unsafe reports whether the token must not be bought: confirmed honeypot,
// unsellable, taxed at or above MaxTaxPct, or flagged high/critical risk.
func (r *RiskReport) Unsafe() bool {
	if r.IsHoneypot || !r.CanSell {
		return true
	}
	if r.BuyTaxPct >= MaxTaxPct || r.SellTaxPct >= MaxTaxPct {
		return true
	}
	return r.RiskLevel == RiskLevelHigh || r.RiskLevel == RiskLevelCritical
}
