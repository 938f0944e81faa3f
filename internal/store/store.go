// Package store provides the memory storage interface and its SQLite +
// sqlite-vec implementation.
package store

import (
	"context"

	"github.com/rcliao/mind/internal/model"
)

// Filter narrows search results after the nearest-neighbor cut.
// Zero values mean "no constraint"; Since/Until are inclusive unix seconds.
type Filter struct {
	Limit int
	Type  string
	Tags  []string
	Since int64
	Until int64
}

// Store defines the persistence contract for the memory engine. Every
// mutating call writes the metadata row and the vector-index entry in one
// transaction, so "row exists and is not deleted" always implies "vector
// exists" and vice versa.
type Store interface {
	// Create inserts a new memory plus its embedding atomically. The store
	// assigns the external id and both timestamps. Returns the persisted
	// record.
	Create(ctx context.Context, m *model.Memory, embedding []float32) (*model.Memory, error)

	// Get returns a memory by internal id, including soft-deleted rows.
	// Missing ids yield (nil, nil).
	Get(ctx context.Context, id int64) (*model.Memory, error)

	// Update rewrites the mutable fields of a non-deleted memory and, when
	// embedding is non-nil, upserts the vector-index entry. Returns
	// (nil, nil) if the row is missing or soft-deleted.
	Update(ctx context.Context, m *model.Memory, embedding []float32) (*model.Memory, error)

	// Delete soft-deletes a memory and removes its vector-index entry.
	// Reports whether a row was actually deleted.
	Delete(ctx context.Context, id int64) (bool, error)

	// Search runs a nearest-neighbor lookup over all vectors and joins the
	// candidates against the metadata table with f applied. Results ascend
	// by distance.
	Search(ctx context.Context, embedding []float32, f Filter) ([]model.SearchResult, error)

	// Close closes the store.
	Close() error
}
