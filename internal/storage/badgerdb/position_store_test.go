package badgerdb

import (
	"context"
	"io"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-trader/internal/domain"
	"token-trader/internal/storage"
)

func newTestStore(t *testing.T) *PositionStore {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := OpenInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePosition(token string) *domain.Position {
	return &domain.Position{
		TokenAddress:  token,
		Symbol:        "AAA",
		EntryPrice:    0.002,
		CurrentPrice:  0.0021,
		HighestPrice:  0.0022,
		Amount:        750,
		Notional:      1.5,
		EntryTime:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		StopLossPrice: 0.0013,
	}
}

func TestSaveAndLoadAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, samplePosition("tokA")))
	require.NoError(t, s.Save(ctx, samplePosition("tokB")))

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestSaveOverwritesFullRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pos := samplePosition("tokA")
	require.NoError(t, s.Save(ctx, pos))

	pos.CurrentTier = 2
	pos.TrailingActive = true
	pos.StopLossPrice = 0.0025
	require.NoError(t, s.Save(ctx, pos))

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 2, loaded[0].CurrentTier)
	assert.True(t, loaded[0].TrailingActive)
	assert.Equal(t, 0.0025, loaded[0].StopLossPrice)
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.Save(context.Background(), nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, s.Save(context.Background(), &domain.Position{}), storage.ErrInvalidInput)
}

func TestDeleteMissingIsNotError(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Delete(context.Background(), "never-saved"))
}

func TestDeleteRemovesSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, samplePosition("tokA")))
	require.NoError(t, s.Delete(ctx, "tokA"))

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadAllSkipsCorruptSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, samplePosition("tokA")))

	// plant garbage and a structurally valid but nonsensical record
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyPrefix+"broken"), []byte("{not json")); err != nil {
			return err
		}
		return txn.Set([]byte(keyPrefix+"zeroed"), []byte(`{"token_address":"zeroed","entry_price":0}`))
	})
	require.NoError(t, err)

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err, "corrupt entries must not abort recovery")
	require.Len(t, loaded, 1)
	assert.Equal(t, "tokA", loaded[0].TokenAddress)
}

func TestOpenOnDiskPersistsAcrossReopen(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	dir := t.TempDir()

	s, err := Open(dir, log)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), samplePosition("tokA")))
	require.NoError(t, s.Close())

	s, err = Open(dir, log)
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "tokA", loaded[0].TokenAddress)
	assert.Equal(t, 0.002, loaded[0].EntryPrice)
}
