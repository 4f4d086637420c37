package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"token-trader/internal/domain"
	"token-trader/internal/storage"
)

// LedgerStore implements storage.LedgerStore using PostgreSQL.
type LedgerStore struct {
	pool *Pool
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LedgerStore = (*LedgerStore)(nil)

// Insert appends a new round-trip row with exit fields unset.
// Returns ErrDuplicateKey if trade_id exists.
func (s *LedgerStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" || t.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trade_history (
			trade_id, token_address, symbol, side,
			amount_in, amount_out, price,
			entry_time, exit_time, profit_loss_pct, exit_reason
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10, $11
		)
	`

	_, err := s.pool.Exec(ctx, query,
		t.TradeID, t.TokenAddress, t.Symbol, t.Side,
		t.AmountIn, t.AmountOut, t.Price,
		t.EntryTime, t.ExitTime, t.ProfitLoss, t.ExitReason,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert ledger row: %w", err)
	}
	return nil
}

// Finalize fills the exit fields of an open row.
// Returns ErrNotFound if no open row with that trade_id exists.
func (s *LedgerStore) Finalize(ctx context.Context, tradeID string, exit storage.LedgerExit) error {
	query := `
		UPDATE trade_history
		SET amount_out = $2,
		    exit_time = $3,
		    profit_loss_pct = $4,
		    exit_reason = $5
		WHERE trade_id = $1
		  AND exit_time IS NULL
	`

	tag, err := s.pool.Exec(ctx, query,
		tradeID, exit.AmountOut, exit.ExitTime, exit.ProfitLossPct, exit.ExitReason,
	)
	if err != nil {
		return fmt.Errorf("finalize ledger row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByID retrieves a row by trade_id. Returns ErrNotFound if not exists.
func (s *LedgerStore) GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error) {
	query := selectColumns + ` WHERE trade_id = $1`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanTradeRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get ledger row by id: %w", err)
	}
	return t, nil
}

// GetByToken retrieves all rows for a token, ordered by entry_time ASC.
func (s *LedgerStore) GetByToken(ctx context.Context, tokenAddress string) ([]*domain.TradeRecord, error) {
	query := selectColumns + ` WHERE token_address = $1 ORDER BY entry_time ASC, trade_id ASC`

	rows, err := s.pool.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("get ledger rows by token: %w", err)
	}
	defer rows.Close()

	var result []*domain.TradeRecord
	for rows.Next() {
		t, err := scanTradeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return result, nil
}

const selectColumns = `
	SELECT
		trade_id, token_address, symbol, side,
		amount_in, amount_out, price,
		entry_time, exit_time, profit_loss_pct, exit_reason
	FROM trade_history
`

// scanTradeRecord scans a single row into a domain.TradeRecord.
func scanTradeRecord(row pgx.Row) (*domain.TradeRecord, error) {
	var t domain.TradeRecord
	err := row.Scan(
		&t.TradeID, &t.TokenAddress, &t.Symbol, &t.Side,
		&t.AmountIn, &t.AmountOut, &t.Price,
		&t.EntryTime, &t.ExitTime, &t.ProfitLoss, &t.ExitReason,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
