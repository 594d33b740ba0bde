package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the normaliser registered for
// their MIME type. A later registration for the same type wins.
type Registry struct {
	mu     sync.RWMutex
	byMIME map[string]driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byMIME: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser for each MIME type it supports.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mime := range normaliser.SupportedMIMETypes() {
		r.byMIME[mime] = normaliser
	}
}

// Normalise transforms a raw document using the matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.PageRecord, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: raw document is nil", domain.ErrInvalidInput)
	}

	r.mu.RLock()
	n, ok := r.byMIME[raw.MIMEType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, raw.MIMEType, raw.URI)
	}

	return n.Normalise(ctx, raw)
}

// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byMIME))
	for mime := range r.byMIME {
		types = append(types, mime)
	}
	sort.Strings(types)
	return types
}
