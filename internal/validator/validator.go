// Package validator re-checks a selected candidate against live market
// data immediately before entry. Discovery-time figures are treated as
// stale; only the fresh snapshot decides.
package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"token-trader/internal/config"
	"token-trader/internal/domain"
	"token-trader/internal/market"
	"token-trader/internal/risk"
	"token-trader/internal/selector"
)

// ErrRejected wraps every validation rejection. The wrapped message
// carries the concrete reason.
var ErrRejected = errors.New("validator: candidate rejected")

// Fresh volume must be at least this share of the discovery-time volume,
// otherwise interest has already drained away.
const volumeRetentionPct = 50.0

// Validator performs the pre-trade check.
type Validator struct {
	cfg      config.TradingConfig
	feed     market.Feed
	risk     risk.Checker
	cooldown *selector.Cooldown
	log      *logrus.Logger
}

// New builds a Validator. A rejection registers the token in the shared
// cooldown registry.
func New(cfg config.TradingConfig, feed market.Feed, checker risk.Checker, cooldown *selector.Cooldown, log *logrus.Logger) *Validator {
	return &Validator{cfg: cfg, feed: feed, risk: checker, cooldown: cooldown, log: log}
}

// Validate re-fetches live market data for the candidate and applies the
// entry rules. On success it returns the fresh price, which is the
// authoritative entry price. On rejection it returns an error wrapping
// ErrRejected and puts the token on cooldown.
//
// A risk-provider failure does not reject: the check degrades to
// market-data-only with a logged warning. Unknown is not unsafe.
func (v *Validator) Validate(ctx context.Context, c *domain.Candidate, now time.Time) (float64, error) {
	snap, err := v.feed.Snapshot(ctx, c.TokenAddress)
	if err != nil {
		return 0, v.reject(c, now, fmt.Sprintf("no live market data: %v", err))
	}
	if snap.PriceUSD <= 0 {
		return 0, v.reject(c, now, fmt.Sprintf("non-positive price %v", snap.PriceUSD))
	}
	if snap.LiquidityUSD < v.cfg.MinLiquidityUSD {
		return 0, v.reject(c, now, fmt.Sprintf("liquidity %.0f below floor %.0f",
			snap.LiquidityUSD, v.cfg.MinLiquidityUSD))
	}
	if required := c.Volume24h * volumeRetentionPct / 100; snap.Volume24h < required {
		return 0, v.reject(c, now, fmt.Sprintf("volume %.0f below %v%% of discovery volume %.0f",
			snap.Volume24h, volumeRetentionPct, c.Volume24h))
	}

	report, err := v.risk.Check(ctx, c.TokenAddress)
	if err != nil {
		v.log.WithField("token", c.TokenAddress).WithError(err).
			Warn("risk oracle unavailable, proceeding on market data only")
	} else if report.Unsafe() {
		return 0, v.reject(c, now, fmt.Sprintf("risk oracle verdict: honeypot=%v can_sell=%v buy_tax=%.1f sell_tax=%.1f level=%s",
			report.IsHoneypot, report.CanSell, report.BuyTaxPct, report.SellTaxPct, report.RiskLevel))
	}

	v.log.WithFields(logrus.Fields{
		"token": c.TokenAddress,
		"price": snap.PriceUSD,
	}).Info("candidate validated")
	return snap.PriceUSD, nil
}

func (v *Validator) reject(c *domain.Candidate, now time.Time, reason string) error {
	v.cooldown.Add(c.TokenAddress, now)
	v.log.WithFields(logrus.Fields{
		"token":  c.TokenAddress,
		"symbol": c.Symbol,
		"reason": reason,
	}).Info("candidate rejected")
	return fmt.Errorf("%w: %s", ErrRejected, reason)
}
