// Package strategy holds the per-tick exit rules for open positions:
// time-based exits, the grace-period stop loss, and the tiered trailing
// stop, composed by the Evaluator in a fixed order.
package strategy

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"token-trader/internal/config"
	"token-trader/internal/domain"
	"token-trader/internal/market"
	"token-trader/internal/observability"
)

// Price sanity bounds: a fresh price whose ratio to the entry price
// falls outside this band is treated as feed garbage and discarded.
const (
	sanityRatioMin = 0.001
	sanityRatioMax = 1000.0
)

// ExitDecision tells the position manager to close a position.
type ExitDecision struct {
	Reason string  // ledger reason code
	Detail string  // human-readable, e.g. "Trailing Stop L2"
	Price  float64 // price the decision was made at
}

// Evaluator runs one position through the exit rules each tick.
type Evaluator struct {
	feed     market.Feed
	timeExit *TimeExit
	stopLoss *StopLoss
	trailing *TrailingStop

	retries int
	backoff time.Duration
	sleep   func(time.Duration)
	metrics *observability.Metrics
	log     *logrus.Logger
}

// EvaluatorOption customizes an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithSleep replaces the retry backoff sleeper, for tests.
func WithSleep(fn func(time.Duration)) EvaluatorOption {
	return func(e *Evaluator) { e.sleep = fn }
}

// WithMetrics wires feed retry and error counters.
func WithMetrics(m *observability.Metrics) EvaluatorOption {
	return func(e *Evaluator) { e.metrics = m }
}

// NewEvaluator wires the exit rules to a market feed.
func NewEvaluator(cfg *config.Config, feed market.Feed, log *logrus.Logger, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		feed:     feed,
		timeExit: NewTimeExit(cfg.Exits),
		stopLoss: NewStopLoss(cfg.Exits),
		trailing: NewTrailingStop(cfg.Trailing),
		retries:  cfg.Feed.PriceRetries,
		backoff:  time.Duration(cfg.Feed.RetryBackoffSec) * time.Second,
		sleep:    time.Sleep,
		log:      log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate refreshes the position's price and applies the exit rules in
// order: time exit, stop loss, trailing update, trailing check. The
// first rule that fires wins. When the feed is down the last accepted
// price still drives the evaluation; time exits must not wait for a
// dead feed.
//
// dirty reports that durable position state changed (new peak, trailing
// commit, grace expiry) and a snapshot write is due.
func (e *Evaluator) Evaluate(ctx context.Context, pos *domain.Position, now time.Time) (decision *ExitDecision, dirty bool) {
	if snap, ok := e.fetchSnapshot(ctx, pos.TokenAddress); ok {
		e.applySnapshot(pos, snap)
	}

	prevHigh := pos.HighestPrice
	pos.RaiseHigh(pos.CurrentPrice)
	dirty = pos.HighestPrice > prevHigh

	if pos.GracePeriodActive && !e.stopLoss.InGrace(pos, now) {
		pos.GracePeriodActive = false
		dirty = true
	}

	if reason, detail, exit := e.timeExit.Check(pos, now); exit {
		return &ExitDecision{Reason: reason, Detail: detail, Price: pos.CurrentPrice}, dirty
	}
	if detail, exit := e.stopLoss.Check(pos, now); exit {
		return &ExitDecision{Reason: domain.ExitReasonStopLoss, Detail: detail, Price: pos.CurrentPrice}, dirty
	}

	if committed, detail := e.trailing.Update(pos); committed {
		dirty = true
		e.log.WithFields(logrus.Fields{
			"token":  pos.TokenAddress,
			"detail": detail,
		}).Debug("trailing stop advanced")
	}
	if detail, exit := e.trailing.ShouldExit(pos); exit {
		return &ExitDecision{Reason: domain.ExitReasonTrailingStop, Detail: detail, Price: pos.CurrentPrice}, dirty
	}

	return nil, dirty
}

// fetchSnapshot pulls a fresh snapshot with bounded retries. ok is false
// when every attempt failed; the caller keeps the last accepted price.
func (e *Evaluator) fetchSnapshot(ctx context.Context, tokenAddress string) (*domain.MarketSnapshot, bool) {
	attempts := e.retries
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if e.metrics != nil {
				e.metrics.FeedRetries.Inc()
			}
			e.sleep(e.backoff)
		}
		snap, err := e.feed.Snapshot(ctx, tokenAddress)
		if err != nil {
			lastErr = err
			continue
		}
		return snap, true
	}
	if e.metrics != nil {
		e.metrics.FeedErrors.Inc()
	}
	e.log.WithField("token", tokenAddress).WithError(lastErr).
		Warn("price fetch failed after retries, keeping last price")
	return nil, false
}

// applySnapshot accepts a fresh snapshot unless its price fails the
// sanity check against the entry price. An accepted snapshot also
// refreshes the position's observed liquidity and volume.
func (e *Evaluator) applySnapshot(pos *domain.Position, snap *domain.MarketSnapshot) {
	if snap.PriceUSD <= 0 {
		return
	}
	if pos.EntryPrice > 0 {
		ratio := snap.PriceUSD / pos.EntryPrice
		if ratio < sanityRatioMin || ratio > sanityRatioMax {
			e.log.WithFields(logrus.Fields{
				"token": pos.TokenAddress,
				"price": snap.PriceUSD,
				"entry": pos.EntryPrice,
			}).Warn("implausible price discarded")
			return
		}
	}
	pos.CurrentPrice = snap.PriceUSD
	pos.Liquidity = snap.LiquidityUSD
	pos.Volume24h = snap.Volume24h
}
