package memory

import (
	"context"
	"sort"
	"sync"

	"token-trader/internal/domain"
	"token-trader/internal/storage"
)

// TickStore is an in-memory implementation of storage.TickStore.
type TickStore struct {
	mu   sync.RWMutex
	data []*domain.TickPoint
}

// NewTickStore creates a new in-memory tick store.
func NewTickStore() *TickStore {
	return &TickStore{}
}

// InsertBulk adds multiple points.
func (s *TickStore) InsertBulk(_ context.Context, points []*domain.TickPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if p == nil || p.TokenAddress == "" {
			return storage.ErrInvalidInput
		}
		cp := *p
		s.data = append(s.data, &cp)
	}
	return nil
}

// GetByToken retrieves all points for a token, ordered by timestamp ASC.
func (s *TickStore) GetByToken(_ context.Context, tokenAddress string) ([]*domain.TickPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TickPoint
	for _, p := range s.data {
		if p.TokenAddress == tokenAddress {
			cp := *p
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

var _ storage.TickStore = (*TickStore)(nil)
