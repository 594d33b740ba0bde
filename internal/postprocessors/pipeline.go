// Package postprocessors turns page text into ordered chunks.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driven.Splitter = (*Pipeline)(nil)

// Pipeline chains multiple PostProcessors and runs them in order, page by page.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs one page through all processors in order.
// The first processor receives nil chunks and should create them.
// Subsequent processors receive and may modify the chunks.
func (p *Pipeline) Process(ctx context.Context, page *domain.PageRecord) ([]domain.Chunk, error) {
	if page == nil {
		return nil, fmt.Errorf("%w: page is nil", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk

	for _, processor := range p.processors {
		var err error
		chunks, err = processor.Process(ctx, page, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return chunks, nil
}

// Split processes pages in the order given and concatenates their chunks,
// so every page's chunks are contiguous and in left-to-right order.
func (p *Pipeline) Split(ctx context.Context, pages []domain.PageRecord) ([]domain.Chunk, error) {
	var all []domain.Chunk

	for i := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunks, err := p.Process(ctx, &pages[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrSplit, pages[i].PageKey(), err)
		}

		logger.Debug("split %s into %d chunks", pages[i].PageKey(), len(chunks))
		all = append(all, chunks...)
	}

	return all, nil
}
