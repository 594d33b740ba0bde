package services

import (
	"context"
	"errors"
	"strings"
	stdsync "sync"

	"github.com/custodia-labs/pdfsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// fakeEmbedder returns {len(text), 1} for every text and records each batch.
type fakeEmbedder struct {
	mu      stdsync.Mutex
	batches [][]string
	err     error
	short   bool
	closes  int
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	vecs := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vecs = append(vecs, []float32{float32(len(text)), 1})
	}
	if f.short && len(vecs) > 0 {
		vecs = vecs[:len(vecs)-1]
	}
	return vecs, nil
}

func (f *fakeEmbedder) Dimensions() int              { return 2 }
func (f *fakeEmbedder) ModelName() string            { return "fake" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }

func (f *fakeEmbedder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

// embedded returns every text passed to EmbedBatch, in call order.
func (f *fakeEmbedder) embedded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []string
	for _, b := range f.batches {
		all = append(all, b...)
	}
	return all
}

func (f *fakeEmbedder) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

// spyFactory wraps a memory store and injects failures.
type spyFactory struct {
	inner    *memory.Factory
	openErr  error
	idsErr   error
	addErr   error
	countErr error
	closeErr error

	opened int
	closed int
	adds   int
}

func newSpyFactory() *spyFactory {
	return &spyFactory{inner: memory.NewFactory()}
}

func (f *spyFactory) Open(ctx context.Context) (driven.VectorStore, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	store, err := f.inner.Open(ctx)
	if err != nil {
		return nil, err
	}
	f.opened++
	return &spyStore{VectorStore: store, factory: f}, nil
}

// seed writes ids directly, bypassing the sync.
func (f *spyFactory) seed(ids ...string) error {
	store, err := f.inner.Open(context.Background())
	if err != nil {
		return err
	}
	defer store.Close()
	records := make([]domain.VectorRecord, len(ids))
	for i, id := range ids {
		records[i] = domain.VectorRecord{Embedding: []float32{0}, Text: "seed " + id}
	}
	return store.Add(context.Background(), ids, records)
}

func (f *spyFactory) ids() map[string]struct{} {
	store, err := f.inner.Open(context.Background())
	if err != nil {
		return nil
	}
	defer store.Close()
	ids, _ := store.IDs(context.Background())
	return ids
}

type spyStore struct {
	driven.VectorStore
	factory *spyFactory
}

func (s *spyStore) IDs(ctx context.Context) (map[string]struct{}, error) {
	if s.factory.idsErr != nil {
		return nil, s.factory.idsErr
	}
	return s.VectorStore.IDs(ctx)
}

func (s *spyStore) Add(ctx context.Context, ids []string, records []domain.VectorRecord) error {
	s.factory.adds++
	if s.factory.addErr != nil {
		return s.factory.addErr
	}
	return s.VectorStore.Add(ctx, ids, records)
}

func (s *spyStore) Count(ctx context.Context) (int, error) {
	if s.factory.countErr != nil {
		return 0, s.factory.countErr
	}
	return s.VectorStore.Count(ctx)
}

func (s *spyStore) Close() error {
	s.factory.closed++
	if err := s.VectorStore.Close(); err != nil {
		return err
	}
	return s.factory.closeErr
}

// stubLoader returns the pages set on it, or blocks until release is closed.
type stubLoader struct {
	pages   []domain.PageRecord
	err     error
	started chan struct{}
	release chan struct{}
}

func (l *stubLoader) Load(ctx context.Context, _ string) ([]domain.PageRecord, error) {
	if l.started != nil {
		close(l.started)
		l.started = nil
	}
	if l.release != nil {
		select {
		case <-l.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.pages, nil
}

// pipeSplitter emits one chunk per "|"-separated segment of each page.
type pipeSplitter struct {
	err error
}

func (s pipeSplitter) Split(_ context.Context, pages []domain.PageRecord) ([]domain.Chunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	var chunks []domain.Chunk
	for i := range pages {
		if pages[i].Text == "" {
			continue
		}
		for _, part := range strings.Split(pages[i].Text, "|") {
			chunks = append(chunks, domain.NewChunk(&pages[i], part))
		}
	}
	return chunks, nil
}

func page(source string, number int, text string) domain.PageRecord {
	return domain.PageRecord{Source: source, PageNumber: number, Text: text}
}

func chunk(source string, number int, text string) domain.Chunk {
	p := page(source, number, text)
	return domain.NewChunk(&p, text)
}

func identified(id, text string) domain.Chunk {
	return domain.Chunk{ID: id, Source: "s", Text: text}
}

var errBoom = errors.New("boom")
