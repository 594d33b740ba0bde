package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Handles opened from the same Factory share their contents.
type VectorStore struct {
	mu      *sync.RWMutex
	records map[string]domain.VectorRecord
	closed  bool
}

// NewVectorStore creates a new empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		mu:      &sync.RWMutex{},
		records: make(map[string]domain.VectorRecord),
	}
}

// IDs returns every stored ID.
func (s *VectorStore) IDs(_ context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("%w: store is closed", domain.ErrStore)
	}

	ids := make(map[string]struct{}, len(s.records))
	for id := range s.records {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// Add stores records under the matching IDs. Existing IDs are skipped.
// The batch is validated before anything is written.
func (s *VectorStore) Add(_ context.Context, ids []string, records []domain.VectorRecord) error {
	if len(ids) != len(records) {
		return fmt.Errorf("%w: %d ids for %d records", domain.ErrInvalidInput, len(ids), len(records))
	}
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty id at position %d", domain.ErrInvalidInput, i)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: store is closed", domain.ErrStore)
	}

	for i, id := range ids {
		if _, exists := s.records[id]; exists {
			continue
		}
		s.records[id] = cloneRecord(records[i])
	}
	return nil
}

// Count returns the number of stored IDs.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, fmt.Errorf("%w: store is closed", domain.ErrStore)
	}
	return len(s.records), nil
}

// Get returns a copy of the record stored under id.
func (s *VectorStore) Get(_ context.Context, id string) (*domain.VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec = cloneRecord(rec)
	return &rec, nil
}

// Close marks this handle closed. The contents stay available to other handles.
func (s *VectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func cloneRecord(rec domain.VectorRecord) domain.VectorRecord {
	return domain.VectorRecord{
		Embedding: append([]float32(nil), rec.Embedding...),
		Text:      rec.Text,
		Metadata:  maps.Clone(rec.Metadata),
	}
}

// Ensure Factory implements the interface.
var _ driven.VectorStoreFactory = (*Factory)(nil)

// Factory hands out handles onto one shared in-memory store,
// so data written in one run is visible to the next.
type Factory struct {
	mu      sync.RWMutex
	records map[string]domain.VectorRecord
	opens   int
}

// NewFactory creates a factory over an empty store.
func NewFactory() *Factory {
	return &Factory{records: make(map[string]domain.VectorRecord)}
}

// Open returns a new handle onto the shared store.
func (f *Factory) Open(ctx context.Context) (driven.VectorStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.opens++
	f.mu.Unlock()
	return &VectorStore{mu: &f.mu, records: f.records}, nil
}

// Opens returns how many handles have been opened.
func (f *Factory) Opens() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.opens
}
