package driven

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// VectorStore is a persistent mapping from chunk ID to vector record.
// Writes are additive: an existing ID is never overwritten.
type VectorStore interface {
	// IDs returns the set of every stored ID without loading vectors or text.
	IDs(ctx context.Context) (map[string]struct{}, error)

	// Add writes records under the matching IDs in one batch.
	// ids and records are parallel and must have equal length.
	// IDs already present are left untouched.
	Add(ctx context.Context, ids []string, records []domain.VectorRecord) error

	// Count returns the number of stored IDs.
	Count(ctx context.Context) (int, error)

	// Close releases the store. The store must not be used afterwards.
	Close() error
}

// VectorStoreFactory opens the configured vector store, creating it if absent.
type VectorStoreFactory interface {
	Open(ctx context.Context) (VectorStore, error)
}
