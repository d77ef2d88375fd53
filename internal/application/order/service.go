package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/order"
	"github.com/wms/backend/internal/domain/shared"
)

// Service handles order business operations. Every operation loads the full
// collection from the repository, works on it in memory, and (for mutations)
// writes the full collection back. There is no cross-request cache.
type Service struct {
	repo   order.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new order Service.
func NewService(repo order.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns the full order collection.
func (s *Service) List(ctx context.Context) ([]order.Order, error) {
	return s.repo.LoadAll(ctx)
}

// Get returns the order with the given identifier.
func (s *Service) Get(ctx context.Context, orderID string) (*order.Order, error) {
	orders, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].OrderID == orderID {
			return &orders[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// Create derives a complete order from the candidate payload, appends it to
// the collection and persists the whole collection.
func (s *Service) Create(ctx context.Context, payload order.Order) (*order.Order, error) {
	orders, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	created, err := order.Derive(orders, payload, s.now())
	if err != nil {
		return nil, err
	}

	orders = append(orders, created)
	if err := s.repo.SaveAll(ctx, orders); err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", created.OrderID),
		zap.Int("line_items", len(created.LineItems)),
	)
	return &created, nil
}

// Update shallow-merges a partial payload onto the order with the given
// identifier. Totals, dates and line item ids are not recomputed; a supplied
// line_items replaces the entire sequence.
func (s *Service) Update(ctx context.Context, orderID string, patch order.Patch) (*order.Order, error) {
	orders, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].OrderID != orderID {
			continue
		}
		orders[i] = order.Merge(orders[i], patch)
		if err := s.repo.SaveAll(ctx, orders); err != nil {
			return nil, err
		}
		s.logger.Info("Order updated", zap.String("order_id", orderID))
		return &orders[i], nil
	}
	return nil, shared.ErrNotFound
}

// Delete removes and returns the order with the given identifier. The
// identifier is never reassigned to a later order.
func (s *Service) Delete(ctx context.Context, orderID string) (*order.Order, error) {
	orders, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].OrderID != orderID {
			continue
		}
		deleted := orders[i]
		remaining := append(orders[:i:i], orders[i+1:]...)
		if err := s.repo.SaveAll(ctx, remaining); err != nil {
			return nil, err
		}
		s.logger.Info("Order deleted", zap.String("order_id", orderID))
		return &deleted, nil
	}
	return nil, shared.ErrNotFound
}
