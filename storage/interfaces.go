package storage

import (
	"context"
	"iter"

	"github.com/draycott/ingestkit/core"
)

// VectorStore persists document chunks for later similarity search.
// Implementations must be thread-safe and support concurrent access.
type VectorStore interface {
	// AddDocuments persists the given documents and returns the assigned
	// IDs, one per document in input order. Documents are stored as-is;
	// identical content produces distinct entries.
	AddDocuments(ctx context.Context, docs []core.Document) ([]string, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// EntrySource streams all stored entries. Backends that support
// maintenance operations (search scans, re-embedding) implement it in
// addition to VectorStore.
type EntrySource interface {
	// Entries returns a lazy sequence over all stored entries.
	// Iteration stops early if the consumer breaks or ctx is cancelled.
	Entries(ctx context.Context) iter.Seq2[*Entry, error]
}

// VectorUpdater rewrites the vector of a stored entry in place.
type VectorUpdater interface {
	// UpdateVector replaces the vector of the entry with the given ID.
	// Returns ErrNotFound if no such entry exists.
	UpdateVector(ctx context.Context, id string, vector []float32) error
}
