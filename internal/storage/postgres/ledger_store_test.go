package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-trader/internal/domain"
	"token-trader/internal/storage"
	"token-trader/internal/storage/postgres"
)

func openTrade(id, token string, entry time.Time) *domain.TradeRecord {
	return &domain.TradeRecord{
		TradeID:      id,
		TokenAddress: token,
		Symbol:       "AAA",
		Side:         domain.SideBuy,
		AmountIn:     1.5,
		Price:        0.002,
		EntryTime:    entry,
	}
}

func TestLedgerStoreInsertAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	s := postgres.NewLedgerStore(pool)
	ctx := context.Background()
	entry := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, openTrade("t1", "tokA", entry)))

	row, err := s.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "tokA", row.TokenAddress)
	assert.Equal(t, 1.5, row.AmountIn)
	assert.Nil(t, row.AmountOut)
	assert.Nil(t, row.ExitTime)
	assert.Empty(t, row.ExitReason)
	assert.True(t, row.EntryTime.Equal(entry))
}

func TestLedgerStoreDuplicateInsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	s := postgres.NewLedgerStore(pool)
	ctx := context.Background()
	entry := time.Now().UTC()

	require.NoError(t, s.Insert(ctx, openTrade("t1", "tokA", entry)))
	assert.ErrorIs(t, s.Insert(ctx, openTrade("t1", "tokA", entry)), storage.ErrDuplicateKey)
}

func TestLedgerStoreFinalize(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	s := postgres.NewLedgerStore(pool)
	ctx := context.Background()
	entry := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, openTrade("t1", "tokA", entry)))

	exit := storage.LedgerExit{
		AmountOut:     1.875,
		ExitTime:      entry.Add(2 * time.Hour),
		ProfitLossPct: 25,
		ExitReason:    domain.ExitReasonTrailingStop,
	}
	require.NoError(t, s.Finalize(ctx, "t1", exit))

	row, err := s.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, row.AmountOut)
	assert.InDelta(t, 1.875, *row.AmountOut, 1e-9)
	require.NotNil(t, row.ProfitLoss)
	assert.InDelta(t, 25, *row.ProfitLoss, 1e-9)
	assert.Equal(t, domain.ExitReasonTrailingStop, row.ExitReason)

	// second finalize hits no open row
	assert.ErrorIs(t, s.Finalize(ctx, "t1", exit), storage.ErrNotFound)
}

func TestLedgerStoreFinalizeUnknown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	s := postgres.NewLedgerStore(pool)
	err := s.Finalize(context.Background(), "ghost", storage.LedgerExit{ExitTime: time.Now()})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLedgerStoreGetByTokenOrdered(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	s := postgres.NewLedgerStore(pool)
	ctx := context.Background()
	entry := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	second := openTrade("t2", "tokA", entry.Add(time.Hour))
	require.NoError(t, s.Insert(ctx, second))
	require.NoError(t, s.Insert(ctx, openTrade("t1", "tokA", entry)))
	require.NoError(t, s.Insert(ctx, openTrade("t3", "tokB", entry)))

	rows, err := s.GetByToken(ctx, "tokA")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "t1", rows[0].TradeID)
	assert.Equal(t, "t2", rows[1].TradeID)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
