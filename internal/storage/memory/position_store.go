package memory

import (
	"context"
	"sort"
	"sync"

	"token-trader/internal/domain"
	"token-trader/internal/storage"
)

// PositionStore is an in-memory implementation of storage.PositionStore.
type PositionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Position // keyed by token_address
}

// NewPositionStore creates a new in-memory position store.
func NewPositionStore() *PositionStore {
	return &PositionStore{
		data: make(map[string]*domain.Position),
	}
}

// Save writes a full snapshot, replacing any previous one.
func (s *PositionStore) Save(_ context.Context, p *domain.Position) error {
	if p == nil || p.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.data[p.TokenAddress] = &cp
	return nil
}

// Delete removes the snapshot for a token address. Missing is not an error.
func (s *PositionStore) Delete(_ context.Context, tokenAddress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, tokenAddress)
	return nil
}

// LoadAll returns every snapshot, ordered by token address for determinism.
func (s *PositionStore) LoadAll(_ context.Context) ([]*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Position, 0, len(s.data))
	for _, p := range s.data {
		cp := *p
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TokenAddress < result[j].TokenAddress
	})

	return result, nil
}

var _ storage.PositionStore = (*PositionStore)(nil)
