// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// Name is the registry name of the processor.
const Name = "chunker"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 900

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Processor splits page text into fixed-size character windows.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process splits the page text into chunks.
// Input chunks are ignored; this processor creates new chunks from the page.
// Windows are measured in runes so multi-byte characters are never cut.
func (p *Processor) Process(_ context.Context, page *domain.PageRecord, _ []domain.Chunk) ([]domain.Chunk, error) {
	if page.Text == "" {
		return nil, nil
	}

	content := []rune(page.Text)
	contentLen := len(content)
	step := p.chunkSize - p.overlap

	chunks := make([]domain.Chunk, 0, contentLen/step+1)

	for start := 0; start < contentLen; start += step {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.NewChunk(page, string(content[start:end])))

		// The window reached the end; another one would only repeat the overlap.
		if end == contentLen {
			break
		}
	}

	return chunks, nil
}
