package sqlite

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.VectorStoreFactory = (*Factory)(nil)

// Factory opens the store directory it was created with.
type Factory struct {
	dir string
}

// NewFactory returns a factory for the store in dir.
func NewFactory(dir string) *Factory {
	return &Factory{dir: dir}
}

// Open opens the store. Each call returns an independent handle
// that holds the store lock until closed.
func (f *Factory) Open(ctx context.Context) (driven.VectorStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store, err := NewStore(f.dir)
	if err != nil {
		return nil, err
	}
	return store, nil
}
