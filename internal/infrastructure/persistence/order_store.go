package persistence

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/order"
)

// FileOrderStore persists the order collection as a single JSON file. The
// file is read whole before every operation and rewritten whole on every
// mutation.
//
// Failure policy: an unreadable or unparsable file degrades to an empty
// collection, and a failed write is logged and swallowed so the mutation
// still reports success to the caller. Both are deliberate lossy-but-
// available behaviors; see the store tests. There is no locking around the
// load-mutate-store sequence, so overlapping mutations can lose the earlier
// write (last write wins).
type FileOrderStore struct {
	path   string
	logger *zap.Logger
}

// NewFileOrderStore creates a new FileOrderStore
func NewFileOrderStore(path string, logger *zap.Logger) *FileOrderStore {
	return &FileOrderStore{
		path:   path,
		logger: logger,
	}
}

// LoadAll reads the full order collection from the file.
func (s *FileOrderStore) LoadAll(_ context.Context) ([]order.Order, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("Order file unreadable, starting from empty collection",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return []order.Order{}, nil
	}

	var orders []order.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		s.logger.Error("Order file corrupt, starting from empty collection",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return []order.Order{}, nil
	}
	if orders == nil {
		orders = []order.Order{}
	}
	return orders, nil
}

// SaveAll rewrites the full order collection to the file.
func (s *FileOrderStore) SaveAll(_ context.Context, orders []order.Order) error {
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		s.logger.Error("Failed to encode order collection",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Error("Failed to write order file",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil
	}
	return nil
}
