package driven

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// PostProcessor turns page text into chunks or transforms existing chunks.
// PostProcessors are chained per page in a pipeline.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a page and the chunks produced so far.
	// A chunk-creating processor (e.g., chunker) receives nil and returns new chunks.
	// A transforming processor (e.g., trim) receives and returns chunks.
	// Returned chunks keep their left-to-right order within the page.
	Process(ctx context.Context, page *domain.PageRecord, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// Splitter splits page records into an ordered chunk sequence.
type Splitter interface {
	// Split processes pages in order. All chunks of a page are emitted
	// contiguously before any chunk of the next page. Chunks carry no ID.
	Split(ctx context.Context, pages []domain.PageRecord) ([]domain.Chunk, error)
}
