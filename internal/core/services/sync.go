package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driving"
	"github.com/custodia-labs/pdfsync/internal/logger"
)

// Ensure VectorSync implements the interface.
var _ driving.ChunkSynchroniser = (*VectorSync)(nil)

// VectorSync adds chunks to the vector store, embedding only unseen IDs.
type VectorSync struct {
	stores   driven.VectorStoreFactory
	embedder driven.EmbeddingService
}

// NewVectorSync creates a sync over the given store and embedding service.
func NewVectorSync(stores driven.VectorStoreFactory, embedder driven.EmbeddingService) *VectorSync {
	return &VectorSync{
		stores:   stores,
		embedder: embedder,
	}
}

// Sync opens the store, reads the stored IDs and writes the chunks whose ID
// is missing in a single batch. Stored IDs are never rewritten, even when
// the chunk text changed.
//
// The store is closed on every path. On error the returned report still
// carries the counts computed before the failure.
func (s *VectorSync) Sync(ctx context.Context, chunks []domain.Chunk) (report *domain.SyncReport, err error) {
	report = &domain.SyncReport{Considered: len(chunks)}

	// 1. Open the store
	store, err := s.stores.Open(ctx)
	if err != nil {
		return report, storeError("open", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = storeError("close", cerr)
		}
	}()

	// 2. Read existing IDs
	existing, err := store.IDs(ctx)
	if err != nil {
		return report, storeError("read ids", err)
	}
	report.Existing = len(existing)
	logger.Debug("Existing documents in store: %d", report.Existing)

	// 3. Keep only unseen IDs
	fresh, err := newChunks(chunks, existing)
	if err != nil {
		return report, err
	}
	report.Pending = len(fresh)
	report.Skipped = len(chunks) - len(fresh)

	if len(fresh) == 0 {
		report.Total = report.Existing
		logger.Debug("Nothing to add, %d chunks already stored", report.Skipped)
		return report, nil
	}

	// 4. Embed everything before touching the store
	ids := make([]string, len(fresh))
	texts := make([]string, len(fresh))
	for i, chunk := range fresh {
		ids[i] = chunk.ID
		texts[i] = chunk.Text
	}

	logger.Debug("Embedding %d chunks", len(fresh))
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return report, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	if len(vectors) != len(texts) {
		return report, fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbedding, len(vectors), len(texts))
	}

	// 5. Single batched write
	records := make([]domain.VectorRecord, len(fresh))
	for i, chunk := range fresh {
		records[i] = domain.NewVectorRecord(chunk, vectors[i])
	}
	if err := store.Add(ctx, ids, records); err != nil {
		return report, storeError("add", err)
	}

	report.New = len(ids)
	report.AddedIDs = ids
	logger.Debug("Added %d chunks, skipped %d", report.New, report.Skipped)

	// 6. Re-count the store
	total, err := store.Count(ctx)
	if err != nil {
		return report, storeError("count", err)
	}
	report.Total = total
	if want := report.Existing + report.New; total != want {
		logger.Warn("store holds %d documents, expected %d", total, want)
	}
	return report, nil
}

// Close closes the embedding service.
func (s *VectorSync) Close() error {
	return s.embedder.Close()
}

// newChunks returns the chunks whose ID is not in existing, in input order.
// Empty IDs and IDs repeated among the new chunks are rejected.
func newChunks(chunks []domain.Chunk, existing map[string]struct{}) ([]domain.Chunk, error) {
	fresh := make([]domain.Chunk, 0, len(chunks))
	pending := make(map[string]struct{})

	for i, chunk := range chunks {
		if chunk.ID == "" {
			return nil, fmt.Errorf("%w: chunk %d of %s has no id", domain.ErrInvalidInput, i, chunk.PageKey())
		}
		if _, ok := existing[chunk.ID]; ok {
			continue
		}
		if _, ok := pending[chunk.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate chunk id %s", domain.ErrInvalidInput, chunk.ID)
		}
		pending[chunk.ID] = struct{}{}
		fresh = append(fresh, chunk)
	}
	return fresh, nil
}

// storeError tags err with domain.ErrStore unless the adapter already did.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrStore) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStore, op, err)
}
