package trader

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"token-trader/internal/config"
	"token-trader/internal/domain"
	"token-trader/internal/execution"
	"token-trader/internal/idhash"
	"token-trader/internal/storage"
)

// Manager owns the set of open positions. Every durable mutation goes
// through it: buy fills become snapshots and ledger rows, closes
// finalize the row and drop the snapshot. It is not safe for concurrent
// use; the engine drives it from a single tick loop.
type Manager struct {
	positions map[string]*domain.Position
	snapshots storage.PositionStore
	ledger    storage.LedgerStore
	gateway   execution.Gateway
	stats     *Stats
	log       *logrus.Logger

	graceStopPct float64

	tradesToday int
	tradesDate  time.Time // UTC date the counter belongs to
}

// NewManager wires the manager to its stores and gateway.
func NewManager(cfg *config.Config, snapshots storage.PositionStore, ledger storage.LedgerStore, gateway execution.Gateway, log *logrus.Logger) *Manager {
	return &Manager{
		positions:    make(map[string]*domain.Position),
		snapshots:    snapshots,
		ledger:       ledger,
		gateway:      gateway,
		stats:        NewStats(),
		log:          log,
		graceStopPct: cfg.Exits.GraceStopLossPct,
	}
}

// Count returns the number of open positions.
func (m *Manager) Count() int { return len(m.positions) }

// Has reports whether a position on the token is open.
func (m *Manager) Has(tokenAddress string) bool {
	_, ok := m.positions[tokenAddress]
	return ok
}

// Positions returns the open positions ordered by entry time.
func (m *Manager) Positions() []*domain.Position {
	out := make([]*domain.Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EntryTime.Before(out[j].EntryTime)
	})
	return out
}

// TradesToday returns the number of entries made on the current UTC day.
func (m *Manager) TradesToday() int { return m.tradesToday }

// Stats returns the aggregate performance tracker.
func (m *Manager) Stats() *Stats { return m.stats }

// MaybeResetDaily clears the daily trade counter when the UTC date has
// rolled over since the last entry was counted.
func (m *Manager) MaybeResetDaily(now time.Time) {
	day := now.UTC().Truncate(24 * time.Hour)
	if !day.Equal(m.tradesDate) {
		if m.tradesToday > 0 {
			m.log.WithField("previous", m.tradesToday).Info("daily trade counter reset")
		}
		m.tradesToday = 0
		m.tradesDate = day
	}
}

// Open buys the candidate and registers the position. The fresh price
// from validation is the reference; the fill price is authoritative.
// The initial stop is seeded at the grace distance below entry.
func (m *Manager) Open(ctx context.Context, c *domain.Candidate, freshPrice, notional float64, now time.Time) (*domain.Position, error) {
	if m.Has(c.TokenAddress) {
		return nil, fmt.Errorf("open %s: position already exists", c.TokenAddress)
	}

	fill, err := m.gateway.Buy(ctx, c.TokenAddress, notional, freshPrice)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.TokenAddress, err)
	}

	pos := &domain.Position{
		TokenAddress:      c.TokenAddress,
		Symbol:            c.Symbol,
		EntryPrice:        fill.Price,
		CurrentPrice:      fill.Price,
		HighestPrice:      fill.Price,
		Amount:            fill.Amount,
		Notional:          fill.Notional,
		EntryTime:         now,
		StopLossPrice:     fill.Price * (1 - m.graceStopPct/100),
		GracePeriodActive: true,
	}

	if err := m.snapshots.Save(ctx, pos); err != nil {
		return nil, fmt.Errorf("open %s: snapshot: %w", c.TokenAddress, err)
	}

	record := &domain.TradeRecord{
		TradeID:      idhash.ComputeTradeID(pos.TokenAddress, domain.SideBuy, pos.EntryTime.UnixMilli()),
		TokenAddress: pos.TokenAddress,
		Symbol:       pos.Symbol,
		Side:         domain.SideBuy,
		AmountIn:     pos.Notional,
		Price:        pos.EntryPrice,
		EntryTime:    pos.EntryTime,
	}
	if err := m.ledger.Insert(ctx, record); err != nil {
		// the position is live regardless; the ledger row is bookkeeping
		m.log.WithField("token", pos.TokenAddress).WithError(err).Error("ledger insert failed")
	}

	m.positions[pos.TokenAddress] = pos
	m.tradesToday++
	m.stats.RecordOpen()

	m.log.WithFields(logrus.Fields{
		"token":    pos.TokenAddress,
		"symbol":   pos.Symbol,
		"price":    pos.EntryPrice,
		"notional": pos.Notional,
		"amount":   pos.Amount,
	}).Info("position opened")
	return pos, nil
}

// Close sells the position at the given price and finalizes the round
// trip. When the sell fails the position stays open and the caller
// retries on a later tick.
func (m *Manager) Close(ctx context.Context, pos *domain.Position, reason, detail string, price float64, now time.Time) error {
	fill, err := m.gateway.Sell(ctx, pos.TokenAddress, pos.Amount, price)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"token":  pos.TokenAddress,
			"reason": reason,
		}).WithError(err).Error("sell failed, position stays open")
		return fmt.Errorf("close %s: %w", pos.TokenAddress, err)
	}

	profitPct := (fill.Price - pos.EntryPrice) / pos.EntryPrice * 100
	amountOut := pos.Notional * (1 + profitPct/100)

	tradeID := idhash.ComputeTradeID(pos.TokenAddress, domain.SideBuy, pos.EntryTime.UnixMilli())
	exit := storage.LedgerExit{
		AmountOut:     amountOut,
		ExitTime:      now,
		ProfitLossPct: profitPct,
		ExitReason:    reason,
	}
	if err := m.ledger.Finalize(ctx, tradeID, exit); err != nil {
		m.log.WithField("token", pos.TokenAddress).WithError(err).Error("ledger finalize failed")
	}

	if err := m.snapshots.Delete(ctx, pos.TokenAddress); err != nil {
		m.log.WithField("token", pos.TokenAddress).WithError(err).Error("snapshot delete failed")
	}

	delete(m.positions, pos.TokenAddress)
	m.stats.RecordClose(reason, profitPct, amountOut-pos.Notional)

	m.log.WithFields(logrus.Fields{
		"token":      pos.TokenAddress,
		"symbol":     pos.Symbol,
		"reason":     reason,
		"detail":     detail,
		"profit_pct": fmt.Sprintf("%.2f", profitPct),
		"amount_out": amountOut,
		"held_for":   now.Sub(pos.EntryTime).Round(time.Second),
	}).Info("position closed")
	return nil
}

// Persist writes the position's current snapshot.
func (m *Manager) Persist(ctx context.Context, pos *domain.Position) error {
	return m.snapshots.Save(ctx, pos)
}

// PersistAll snapshots every open position, used at shutdown.
func (m *Manager) PersistAll(ctx context.Context) {
	for _, pos := range m.positions {
		if err := m.snapshots.Save(ctx, pos); err != nil {
			m.log.WithField("token", pos.TokenAddress).WithError(err).Error("shutdown snapshot failed")
		}
	}
}

// Recover rebuilds the open-position map from snapshots after a
// restart. Corrupt snapshots were already skipped by the store.
func (m *Manager) Recover(ctx context.Context) (int, error) {
	loaded, err := m.snapshots.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("recover positions: %w", err)
	}
	for _, pos := range loaded {
		m.positions[pos.TokenAddress] = pos
		m.log.WithFields(logrus.Fields{
			"token":  pos.TokenAddress,
			"symbol": pos.Symbol,
			"entry":  pos.EntryPrice,
		}).Info("position recovered")
	}
	return len(loaded), nil
}
