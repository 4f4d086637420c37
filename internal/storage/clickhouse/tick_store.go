package clickhouse

import (
	"context"
	"fmt"

	"token-trader/internal/domain"
	"token-trader/internal/storage"
)

// TickStore implements storage.TickStore using ClickHouse.
type TickStore struct {
	conn *Conn
}

// NewTickStore creates a new TickStore.
func NewTickStore(conn *Conn) *TickStore {
	return &TickStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TickStore = (*TickStore)(nil)

// InsertBulk adds multiple points in one batch.
func (s *TickStore) InsertBulk(ctx context.Context, points []*domain.TickPoint) error {
	if len(points) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO position_ticks (
			token_address, timestamp_ms, price, liquidity, volume_24h, profit_pct
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if p == nil || p.TokenAddress == "" {
			return storage.ErrInvalidInput
		}
		err = batch.Append(
			p.TokenAddress, p.TimestampMs,
			p.Price, p.Liquidity, p.Volume24h, p.ProfitPct,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByToken retrieves all points for a token, ordered by timestamp ASC.
func (s *TickStore) GetByToken(ctx context.Context, tokenAddress string) ([]*domain.TickPoint, error) {
	query := `
		SELECT token_address, timestamp_ms, price, liquidity, volume_24h, profit_pct
		FROM position_ticks
		WHERE token_address = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	var result []*domain.TickPoint
	for rows.Next() {
		var p domain.TickPoint
		if err := rows.Scan(
			&p.TokenAddress, &p.TimestampMs,
			&p.Price, &p.Liquidity, &p.Volume24h, &p.ProfitPct,
		); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticks: %w", err)
	}

	return result, nil
}
