// Package execution abstracts order submission. The engine talks to a
// Gateway; whether fills come from a paper book or a live venue is not
// its concern.
package execution

import (
	"context"
	"errors"
	"time"
)

// Gateway errors.
var (
	ErrInsufficientBalance = errors.New("execution: insufficient quote balance")
	ErrInsufficientAmount  = errors.New("execution: insufficient token amount")
)

// Fill is a completed order.
type Fill struct {
	FillID       string
	TokenAddress string
	Side         string  // domain.SideBuy / domain.SideSell
	Price        float64 // quote per token
	Amount       float64 // token base units
	Notional     float64 // quote units moved
	Time         time.Time
}

// Gateway executes orders and tracks the quote balance.
type Gateway interface {
	// Buy spends notional quote units on the token at around refPrice.
	Buy(ctx context.Context, tokenAddress string, notional, refPrice float64) (*Fill, error)
	// Sell liquidates amount token units at around refPrice.
	Sell(ctx context.Context, tokenAddress string, amount, refPrice float64) (*Fill, error)
	// QuoteBalance returns the available quote balance.
	QuoteBalance(ctx context.Context) (float64, error)
}
