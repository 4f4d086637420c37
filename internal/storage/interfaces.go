package storage

import (
	"context"
	"time"

	"token-trader/internal/domain"
)

// PositionStore keeps one durable snapshot per open position, keyed by
// token address. Save always replaces the entire record so a crash
// mid-write can never leave a logically inconsistent snapshot. Snapshots
// are the authoritative source for what is currently open.
type PositionStore interface {
	// Save writes a full snapshot of the position, replacing any
	// previous snapshot for the same token address.
	Save(ctx context.Context, p *domain.Position) error

	// Delete removes the snapshot for a token address. Deleting a
	// missing snapshot is not an error.
	Delete(ctx context.Context, tokenAddress string) error

	// LoadAll returns every readable snapshot. Corrupt or unreadable
	// entries are skipped (and logged by the implementation), never
	// treated as fatal; the error return is for total store failure.
	LoadAll(ctx context.Context) ([]*domain.Position, error)
}

// LedgerExit carries the fields written when a round trip completes.
type LedgerExit struct {
	AmountOut     float64
	ExitTime      time.Time
	ProfitLossPct float64
	ExitReason    string
}

// LedgerStore records round trips: one row inserted at buy, completed in
// place at sell. Authoritative for closed trades only.
type LedgerStore interface {
	// Insert appends a new round-trip row with exit fields unset.
	// Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// Finalize fills the exit fields of an open row. Returns
	// ErrNotFound if no open row with that trade_id exists.
	Finalize(ctx context.Context, tradeID string, exit LedgerExit) error

	// GetByID retrieves a row by trade_id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetByToken retrieves all rows for a token, ordered by entry_time ASC.
	GetByToken(ctx context.Context, tokenAddress string) ([]*domain.TradeRecord, error)
}

// TickStore records per-tick price observations for open positions.
// Best-effort: the tick loop tolerates insert failures.
type TickStore interface {
	// InsertBulk adds multiple points. Duplicates are not possible by
	// construction (one point per token per tick).
	InsertBulk(ctx context.Context, points []*domain.TickPoint) error

	// GetByToken retrieves all points for a token, ordered by timestamp ASC.
	GetByToken(ctx context.Context, tokenAddress string) ([]*domain.TickPoint, error)
}
