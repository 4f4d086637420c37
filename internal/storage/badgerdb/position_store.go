// Package badgerdb implements the position snapshot store on BadgerDB,
// an embedded KV store. Every Save replaces the full record inside one
// transaction, so a crash mid-write cannot leave a partial snapshot.
package badgerdb

import (
	"context"
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"token-trader/internal/domain"
	"token-trader/internal/storage"
)

const keyPrefix = "position/"

// PositionStore is a BadgerDB-backed implementation of storage.PositionStore.
type PositionStore struct {
	db  *badger.DB
	log *logrus.Entry
}

// Open opens (or creates) the snapshot store at path.
func Open(path string, log *logrus.Logger) (*PositionStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	return open(opts, log)
}

// OpenInMemory opens a store that lives only for the process lifetime.
// Used by tests and paper-mode dry runs.
func OpenInMemory(log *logrus.Logger) (*PositionStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return open(opts, log)
}

func open(opts badger.Options, log *logrus.Logger) (*PositionStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger snapshot store: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PositionStore{
		db:  db,
		log: log.WithField("component", "snapshot-store"),
	}, nil
}

// Close closes the underlying database.
func (s *PositionStore) Close() error {
	return s.db.Close()
}

// Save writes a full snapshot of the position, replacing any previous one.
func (s *PositionStore) Save(_ context.Context, p *domain.Position) error {
	if p == nil || p.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", p.TokenAddress, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+p.TokenAddress), raw)
	})
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", p.TokenAddress, err)
	}
	return nil
}

// Delete removes the snapshot for a token address. Missing is not an error.
func (s *PositionStore) Delete(_ context.Context, tokenAddress string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + tokenAddress))
	})
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", tokenAddress, err)
	}
	return nil
}

// LoadAll returns every readable snapshot. Entries that fail to decode
// are logged and skipped: recovery must never abort on one bad record.
func (s *PositionStore) LoadAll(_ context.Context) ([]*domain.Position, error) {
	var result []*domain.Position

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(val []byte) error {
				var p domain.Position
				if err := json.Unmarshal(val, &p); err != nil {
					s.log.WithField("key", key).WithError(err).
						Warn("skipping corrupt position snapshot")
					return nil
				}
				if p.TokenAddress == "" || p.EntryPrice <= 0 {
					s.log.WithField("key", key).
						Warn("skipping snapshot with invalid fields")
					return nil
				}
				result = append(result, &p)
				return nil
			})
			if err != nil {
				s.log.WithField("key", key).WithError(err).
					Warn("skipping unreadable position snapshot")
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}

	return result, nil
}

var _ storage.PositionStore = (*PositionStore)(nil)
