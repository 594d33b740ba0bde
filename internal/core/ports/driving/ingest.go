package driving

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// IngestService runs the full load, split, identify and sync pass.
type IngestService interface {
	// Run ingests the configured data directory into the vector store.
	// On failure the report holds whatever was computed before the error.
	Run(ctx context.Context) (*domain.IngestReport, error)

	// Close releases the services the pipeline holds open.
	Close() error
}

// ChunkSynchroniser adds identified chunks to the vector store,
// embedding only those whose ID is not yet stored.
type ChunkSynchroniser interface {
	Sync(ctx context.Context, chunks []domain.Chunk) (*domain.SyncReport, error)

	// Close releases the embedding service.
	Close() error
}
