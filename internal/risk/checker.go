// Package risk queries an external token-safety oracle. A provider
// failure is an error, not a verdict; callers decide whether unknown
// risk blocks a trade.
package risk

import (
	"context"

	"token-trader/internal/domain"
)

// Checker produces a safety report for a token.
type Checker interface {
	Check(ctx context.Context, tokenAddress string) (*domain.RiskReport, error)
}
