package oplog

import "context"

// Repository is the port for persisting journal entries. The synchronizer
// depends on this abstraction, not on SQLite directly, so the implementation
// can be swapped for in-memory (tests) or dropped entirely (nil journal).
type Repository interface {
	// Save appends one row. The journal is append-only; rows are never
	// updated or deleted.
	Save(ctx context.Context, entry *Entry) error

	// ListByOrder returns every row recorded for an order, oldest first.
	ListByOrder(ctx context.Context, orderID string) ([]Entry, error)
}
