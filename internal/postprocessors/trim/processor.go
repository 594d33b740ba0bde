// Package trim provides a processor that strips surrounding whitespace
// from chunks and drops the ones left empty.
package trim

import (
	"context"
	"strings"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// Name is the registry name of the processor.
const Name = "trim"

// Processor trims chunk text.
type Processor struct{}

// New creates a trim processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process trims every chunk and removes chunks that become empty.
// Order is preserved.
func (p *Processor) Process(_ context.Context, _ *domain.PageRecord, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}

	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		c.Text = strings.TrimSpace(c.Text)
		if c.Text == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
