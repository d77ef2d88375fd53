package order

import "context"

// Repository is the persistence boundary for the order collection. The store
// holds the collection as a whole: reads return every order and writes
// replace every order. There is no incremental update.
type Repository interface {
	// LoadAll returns the full order collection. Implementations degrade to
	// an empty collection when the underlying store cannot be read.
	LoadAll(ctx context.Context) ([]Order, error)

	// SaveAll replaces the persisted collection with the given one.
	SaveAll(ctx context.Context, orders []Order) error
}
