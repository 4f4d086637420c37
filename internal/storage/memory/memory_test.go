package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-trader/internal/domain"
	"token-trader/internal/storage"
)

var entryTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestPositionStoreRoundTrip(t *testing.T) {
	s := NewPositionStore()
	ctx := context.Background()

	pos := &domain.Position{TokenAddress: "tokA", EntryPrice: 0.002}
	require.NoError(t, s.Save(ctx, pos))

	// mutating the caller's copy must not leak into the store
	pos.EntryPrice = 999

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 0.002, loaded[0].EntryPrice)
}

func TestPositionStoreSaveReplaces(t *testing.T) {
	s := NewPositionStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &domain.Position{TokenAddress: "tokA", EntryPrice: 1, CurrentTier: 1}))
	require.NoError(t, s.Save(ctx, &domain.Position{TokenAddress: "tokA", EntryPrice: 1, CurrentTier: 2}))

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 2, loaded[0].CurrentTier)
}

func TestPositionStoreDeleteMissingOK(t *testing.T) {
	s := NewPositionStore()
	assert.NoError(t, s.Delete(context.Background(), "ghost"))
}

func TestPositionStoreInvalidInput(t *testing.T) {
	s := NewPositionStore()
	assert.ErrorIs(t, s.Save(context.Background(), nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, s.Save(context.Background(), &domain.Position{}), storage.ErrInvalidInput)
}

func openTrade(id, token string) *domain.TradeRecord {
	return &domain.TradeRecord{
		TradeID:      id,
		TokenAddress: token,
		Symbol:       "AAA",
		Side:         domain.SideBuy,
		AmountIn:     1.5,
		Price:        0.002,
		EntryTime:    entryTime,
	}
}

func TestLedgerInsertAndFinalize(t *testing.T) {
	s := NewLedgerStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, openTrade("t1", "tokA")))
	assert.ErrorIs(t, s.Insert(ctx, openTrade("t1", "tokA")), storage.ErrDuplicateKey)

	exitTime := entryTime.Add(2 * time.Hour)
	exit := storage.LedgerExit{
		AmountOut:     1.875,
		ExitTime:      exitTime,
		ProfitLossPct: 25,
		ExitReason:    domain.ExitReasonTrailingStop,
	}
	require.NoError(t, s.Finalize(ctx, "t1", exit))

	row, err := s.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, row.AmountOut)
	assert.Equal(t, 1.875, *row.AmountOut)
	assert.Equal(t, domain.ExitReasonTrailingStop, row.ExitReason)

	// a closed row cannot be finalized again
	assert.ErrorIs(t, s.Finalize(ctx, "t1", exit), storage.ErrNotFound)
}

func TestLedgerFinalizeUnknownID(t *testing.T) {
	s := NewLedgerStore()
	err := s.Finalize(context.Background(), "ghost", storage.LedgerExit{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLedgerGetByTokenOrdered(t *testing.T) {
	s := NewLedgerStore()
	ctx := context.Background()

	second := openTrade("t2", "tokA")
	second.EntryTime = entryTime.Add(time.Hour)
	require.NoError(t, s.Insert(ctx, second))
	require.NoError(t, s.Insert(ctx, openTrade("t1", "tokA")))
	require.NoError(t, s.Insert(ctx, openTrade("t3", "tokB")))

	rows, err := s.GetByToken(ctx, "tokA")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "t1", rows[0].TradeID)
	assert.Equal(t, "t2", rows[1].TradeID)
}

func TestTickStoreInsertAndQuery(t *testing.T) {
	s := NewTickStore()
	ctx := context.Background()

	points := []*domain.TickPoint{
		{TokenAddress: "tokA", TimestampMs: 2000, Price: 0.0021},
		{TokenAddress: "tokA", TimestampMs: 1000, Price: 0.002},
		{TokenAddress: "tokB", TimestampMs: 1500, Price: 0.01},
	}
	require.NoError(t, s.InsertBulk(ctx, points))

	got, err := s.GetByToken(ctx, "tokA")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1000), got[0].TimestampMs)
	assert.Equal(t, int64(2000), got[1].TimestampMs)
}
