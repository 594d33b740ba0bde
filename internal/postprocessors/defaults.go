package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/postprocessors/chunker"
	"github.com/custodia-labs/pdfsync/internal/postprocessors/recursive"
	"github.com/custodia-labs/pdfsync/internal/postprocessors/trim"
)

// RegisterDefaults registers both split strategies and the trim step.
func RegisterDefaults(r *Registry) {
	r.Register(domain.SplitStrategyFixed.String(), buildChunker)
	r.Register(domain.SplitStrategyRecursive.String(), buildRecursive)
	r.Register(trim.Name, buildTrim)
}

// NewSplitter builds the pipeline described by the splitter settings:
// the configured chunk-creating strategy followed by trim.
func NewSplitter(settings domain.SplitterSettings) (*Pipeline, error) {
	if settings.SplitOnRegex {
		return nil, fmt.Errorf("%w: regex separators are not supported", domain.ErrInvalidInput)
	}

	r := NewRegistry()
	RegisterDefaults(r)

	return r.Pipeline(settings, settings.Strategy.String(), trim.Name)
}

// buildChunker creates the fixed window processor. Non-positive sizes keep
// the chunker defaults.
func buildChunker(settings domain.SplitterSettings) (driven.PostProcessor, error) {
	return chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	), nil
}

// buildRecursive creates the separator-aware processor. Unlike the chunker,
// an overlap that does not fit the chunk size is an error.
func buildRecursive(settings domain.SplitterSettings) (driven.PostProcessor, error) {
	p, err := recursive.New(
		recursive.WithChunkSize(settings.ChunkSize),
		recursive.WithOverlap(settings.ChunkOverlap),
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func buildTrim(_ domain.SplitterSettings) (driven.PostProcessor, error) {
	return trim.New(), nil
}
