package memory

import (
	"context"
	"sort"
	"sync"

	"token-trader/internal/domain"
	"token-trader/internal/storage"
)

// LedgerStore is an in-memory implementation of storage.LedgerStore.
type LedgerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRecord // keyed by trade_id
}

// NewLedgerStore creates a new in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		data: make(map[string]*domain.TradeRecord),
	}
}

// Insert appends a new round-trip row. Returns ErrDuplicateKey if trade_id exists.
func (s *LedgerStore) Insert(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" || t.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *t
	s.data[t.TradeID] = &cp
	return nil
}

// Finalize fills the exit fields of an open row.
func (s *LedgerStore) Finalize(_ context.Context, tradeID string, exit storage.LedgerExit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.data[tradeID]
	if !exists || t.ExitTime != nil {
		return storage.ErrNotFound
	}

	amountOut := exit.AmountOut
	exitTime := exit.ExitTime
	pl := exit.ProfitLossPct
	t.AmountOut = &amountOut
	t.ExitTime = &exitTime
	t.ProfitLoss = &pl
	t.ExitReason = exit.ExitReason
	return nil
}

// GetByID retrieves a row by trade_id. Returns ErrNotFound if not exists.
func (s *LedgerStore) GetByID(_ context.Context, tradeID string) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *t
	return &cp, nil
}

// GetByToken retrieves all rows for a token, ordered by entry_time ASC.
func (s *LedgerStore) GetByToken(_ context.Context, tokenAddress string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.data {
		if t.TokenAddress == tokenAddress {
			cp := *t
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EntryTime.Before(result[j].EntryTime)
	})

	return result, nil
}

var _ storage.LedgerStore = (*LedgerStore)(nil)
