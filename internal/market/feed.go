// Package market provides read access to live token market data.
package market

import (
	"context"
	"errors"

	"token-trader/internal/domain"
)

// ErrNoMarketData is returned when the provider has no pairs for a token.
var ErrNoMarketData = errors.New("market: no data for token")

// Feed serves live per-token market snapshots.
type Feed interface {
	Snapshot(ctx context.Context, tokenAddress string) (*domain.MarketSnapshot, error)
}

// CandidateSource serves the current batch of entry candidates.
// Discovery itself happens upstream; the engine only consumes the result.
type CandidateSource interface {
	Candidates(ctx context.Context) ([]domain.Candidate, error)
}
