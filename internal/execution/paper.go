package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"token-trader/internal/domain"
)

// PaperGateway fills orders instantly at the reference price against a
// simulated quote balance. No slippage, no fees; good enough to exercise
// the full position lifecycle.
type PaperGateway struct {
	mu       sync.Mutex
	balance  float64
	holdings map[string]float64 // token -> base units
	nowFn    func() time.Time
}

// PaperOption customizes a PaperGateway.
type PaperOption func(*PaperGateway)

// WithPaperClock pins the fill timestamp source, for tests.
func WithPaperClock(fn func() time.Time) PaperOption {
	return func(g *PaperGateway) { g.nowFn = fn }
}

// NewPaperGateway starts a paper book with the given quote balance.
func NewPaperGateway(startingBalance float64, opts ...PaperOption) *PaperGateway {
	g := &PaperGateway{
		balance:  startingBalance,
		holdings: make(map[string]float64),
		nowFn:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Buy fills immediately at refPrice.
func (g *PaperGateway) Buy(_ context.Context, tokenAddress string, notional, refPrice float64) (*Fill, error) {
	if refPrice <= 0 {
		return nil, fmt.Errorf("paper buy %s: non-positive price %v", tokenAddress, refPrice)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if notional > g.balance {
		return nil, fmt.Errorf("paper buy %s: need %v, have %v: %w",
			tokenAddress, notional, g.balance, ErrInsufficientBalance)
	}
	amount := notional / refPrice
	g.balance -= notional
	g.holdings[tokenAddress] += amount

	return &Fill{
		FillID:       uuid.NewString(),
		TokenAddress: tokenAddress,
		Side:         domain.SideBuy,
		Price:        refPrice,
		Amount:       amount,
		Notional:     notional,
		Time:         g.nowFn(),
	}, nil
}

// Sell fills immediately at refPrice.
func (g *PaperGateway) Sell(_ context.Context, tokenAddress string, amount, refPrice float64) (*Fill, error) {
	if refPrice <= 0 {
		return nil, fmt.Errorf("paper sell %s: non-positive price %v", tokenAddress, refPrice)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if held := g.holdings[tokenAddress]; amount > held {
		return nil, fmt.Errorf("paper sell %s: need %v, hold %v: %w",
			tokenAddress, amount, held, ErrInsufficientAmount)
	}
	proceeds := amount * refPrice
	g.balance += proceeds
	g.holdings[tokenAddress] -= amount
	if g.holdings[tokenAddress] == 0 {
		delete(g.holdings, tokenAddress)
	}

	return &Fill{
		FillID:       uuid.NewString(),
		TokenAddress: tokenAddress,
		Side:         domain.SideSell,
		Price:        refPrice,
		Amount:       amount,
		Notional:     proceeds,
		Time:         g.nowFn(),
	}, nil
}

// QuoteBalance returns the simulated quote balance.
func (g *PaperGateway) QuoteBalance(context.Context) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balance, nil
}

// Restore marks base units as held, used when recovering open positions
// after a restart so later sells balance.
func (g *PaperGateway) Restore(tokenAddress string, amount float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.holdings[tokenAddress] += amount
}

var _ Gateway = (*PaperGateway)(nil)
