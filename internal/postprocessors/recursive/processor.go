// Package recursive provides a separator-aware text chunking processor
// backed by the langchaingo recursive character splitter.
package recursive

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// Name is the registry name of the processor.
const Name = "recursive"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 900

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Processor splits page text on paragraph, line, word and character
// boundaries, in that order, until every chunk fits the configured size.
// Separators are matched literally, kept at the start of the piece they
// precede, and length is measured in runes.
type Processor struct {
	chunkSize int
	overlap   int
	splitter  textsplitter.RecursiveCharacter
}

// Option configures the recursive processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between neighbouring chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a recursive processor.
// Returns an error if the overlap is not smaller than the chunk size.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", p.overlap, p.chunkSize)
	}

	p.splitter = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(p.chunkSize),
		textsplitter.WithChunkOverlap(p.overlap),
		textsplitter.WithKeepSeparator(true),
	)

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process splits the page text into chunks.
// Input chunks are ignored; this processor creates new chunks from the page.
func (p *Processor) Process(_ context.Context, page *domain.PageRecord, _ []domain.Chunk) ([]domain.Chunk, error) {
	if page.Text == "" {
		return nil, nil
	}

	segments, err := p.splitter.SplitText(page.Text)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", page.PageKey(), err)
	}

	chunks := make([]domain.Chunk, 0, len(segments))
	for _, segment := range segments {
		chunks = append(chunks, domain.NewChunk(page, segment))
	}

	return chunks, nil
}
