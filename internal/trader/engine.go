// Package trader hosts the tick loop that ties selection, validation,
// execution, exit evaluation and persistence together.
package trader

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"token-trader/internal/config"
	"token-trader/internal/domain"
	"token-trader/internal/market"
	"token-trader/internal/observability"
	"token-trader/internal/selector"
	"token-trader/internal/storage"
	"token-trader/internal/strategy"
	"token-trader/internal/validator"
)

// Options carries the engine's collaborators.
type Options struct {
	Config     *config.Config
	Manager    *Manager
	Selector   *selector.Selector
	Validator  *validator.Validator
	Evaluator  *strategy.Evaluator
	Candidates market.CandidateSource
	Cooldown   *selector.Cooldown
	Ticks      storage.TickStore // optional, nil disables tick history
	Metrics    *observability.Metrics
	Logger     *logrus.Logger

	// Clock overrides the time source, for tests.
	Clock func() time.Time
}

// Engine runs the trading loop: one tick evaluates every open position
// for exits, then tries at most one new entry. Single-threaded on
// purpose; positions are never touched concurrently.
type Engine struct {
	cfg        *config.Config
	manager    *Manager
	selector   *selector.Selector
	validator  *validator.Validator
	evaluator  *strategy.Evaluator
	candidates market.CandidateSource
	cooldown   *selector.Cooldown
	ticks      storage.TickStore
	metrics    *observability.Metrics
	log        *logrus.Logger
	clock      func() time.Time

	lastStatsLog time.Time
}

// NewEngine builds the engine from options.
func NewEngine(opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		cfg:        opts.Config,
		manager:    opts.Manager,
		selector:   opts.Selector,
		validator:  opts.Validator,
		evaluator:  opts.Evaluator,
		candidates: opts.Candidates,
		cooldown:   opts.Cooldown,
		ticks:      opts.Ticks,
		metrics:    opts.Metrics,
		log:        opts.Logger,
		clock:      clock,
	}
}

// Run ticks until the context is cancelled, then snapshots every open
// position before returning.
func (e *Engine) Run(ctx context.Context) error {
	e.log.WithFields(logrus.Fields{
		"mode":          e.cfg.Mode,
		"tick_interval": e.cfg.TickInterval(),
		"max_positions": e.cfg.Trading.MaxPositions,
		"daily_limit":   e.cfg.Trading.MaxTradesPerDay,
	}).Info("engine started")

	ticker := time.NewTicker(e.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("shutting down, persisting open positions")
			e.manager.PersistAll(context.Background())
			return ctx.Err()
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// Tick runs one full evaluation cycle.
func (e *Engine) Tick(ctx context.Context) {
	started := time.Now()
	now := e.clock()

	e.manager.MaybeResetDaily(now)
	e.cooldown.Sweep(now)

	e.evaluatePositions(ctx, now)
	e.tryEnter(ctx, now)

	if e.metrics != nil {
		e.metrics.TicksTotal.Inc()
		e.metrics.TickDuration.Observe(time.Since(started).Seconds())
		e.metrics.OpenPositions.Set(float64(e.manager.Count()))
	}

	if now.Sub(e.lastStatsLog) >= time.Hour {
		e.log.WithFields(e.manager.Stats().Fields()).Info("performance summary")
		e.lastStatsLog = now
	}
}

// evaluatePositions runs the exit rules over every open position and
// closes the ones that fired. A failed sell leaves the position open
// for the next tick.
func (e *Engine) evaluatePositions(ctx context.Context, now time.Time) {
	var points []*domain.TickPoint

	for _, pos := range e.manager.Positions() {
		decision, dirty := e.evaluator.Evaluate(ctx, pos, now)
		if dirty {
			if err := e.manager.Persist(ctx, pos); err != nil {
				e.log.WithField("token", pos.TokenAddress).WithError(err).Error("snapshot write failed")
			}
		}

		if e.ticks != nil {
			points = append(points, &domain.TickPoint{
				TokenAddress: pos.TokenAddress,
				TimestampMs:  now.UnixMilli(),
				Price:        pos.CurrentPrice,
				Liquidity:    pos.Liquidity,
				Volume24h:    pos.Volume24h,
				ProfitPct:    pos.ProfitPct(),
			})
		}

		if decision == nil {
			continue
		}
		if err := e.manager.Close(ctx, pos, decision.Reason, decision.Detail, decision.Price, now); err != nil {
			if e.metrics != nil {
				e.metrics.SellFailures.Inc()
			}
			continue
		}
		if e.metrics != nil {
			e.metrics.TradesClosed.WithLabelValues(decision.Reason).Inc()
		}
	}

	if len(points) > 0 {
		// best effort, tick history never blocks trading
		if err := e.ticks.InsertBulk(ctx, points); err != nil {
			e.log.WithError(err).Debug("tick history insert failed")
		}
	}
}

// tryEnter attempts one new entry when capacity and the daily limit
// allow it.
func (e *Engine) tryEnter(ctx context.Context, now time.Time) {
	if e.manager.Count() >= e.cfg.Trading.MaxPositions {
		return
	}
	if e.manager.TradesToday() >= e.cfg.Trading.MaxTradesPerDay {
		return
	}

	batch, err := e.candidates.Candidates(ctx)
	if err != nil {
		e.log.WithError(err).Debug("candidate fetch failed")
		return
	}
	if len(batch) == 0 {
		return
	}

	// never double up on a token already held
	eligible := batch[:0]
	for _, c := range batch {
		if !e.manager.Has(c.TokenAddress) {
			eligible = append(eligible, c)
		}
	}

	best, err := e.selector.Select(ctx, eligible, now)
	if err != nil {
		if !errors.Is(err, selector.ErrNoCandidate) {
			e.log.WithError(err).Warn("candidate selection failed")
		}
		return
	}
	if e.metrics != nil {
		e.metrics.CandidatesScored.Add(float64(len(eligible)))
	}

	freshPrice, err := e.validator.Validate(ctx, best, now)
	if err != nil {
		if e.metrics != nil {
			e.metrics.CandidatesRejected.WithLabelValues("validation").Inc()
		}
		return
	}

	notional, err := e.positionSize(ctx)
	if err != nil {
		e.log.WithError(err).Warn("position sizing failed")
		return
	}
	if notional <= 0 {
		e.log.Debug("no balance available for entry")
		return
	}

	if _, err := e.manager.Open(ctx, best, freshPrice, notional, now); err != nil {
		e.log.WithField("token", best.TokenAddress).WithError(err).Error("entry failed")
		return
	}
	if e.metrics != nil {
		e.metrics.TradesOpened.Inc()
	}
}

// positionSize computes the quote notional for a new entry: a fixed
// percentage of the available balance, clamped to configured bounds.
func (e *Engine) positionSize(ctx context.Context) (float64, error) {
	balance, err := e.manager.gateway.QuoteBalance(ctx)
	if err != nil {
		return 0, err
	}
	notional := balance * e.cfg.Trading.PositionSizePct / 100
	if notional < e.cfg.Trading.MinNotional {
		notional = e.cfg.Trading.MinNotional
	}
	if notional > e.cfg.Trading.MaxNotional {
		notional = e.cfg.Trading.MaxNotional
	}
	if notional > balance {
		return 0, nil
	}
	return notional, nil
}
