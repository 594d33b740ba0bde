package domain

import "strconv"

// Metadata keys persisted alongside every vector.
const (
	MetadataSource     = "source"
	MetadataPageNumber = "page_number"
)

// Chunk is a contiguous span of text taken from a PageRecord.
// Neighbouring chunks of the same page may overlap.
type Chunk struct {
	// ID is "{source}:{page_number}:{sequence_index}".
	// Empty until the identifier has run.
	ID string

	// Source is inherited from the originating page.
	Source string

	// PageNumber is inherited from the originating page.
	PageNumber int

	// SequenceIndex is the zero-based position of the chunk within its page.
	SequenceIndex int

	// Text is the chunk content.
	Text string

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// PageKey returns the "{source}:{page_number}" key of the chunk's page.
func (c Chunk) PageKey() string {
	return PageKey(c.Source, c.PageNumber)
}

// NewChunk creates an unidentified chunk of page holding text.
// The page metadata is copied so chunks never share a map.
func NewChunk(page *PageRecord, text string) Chunk {
	metadata := make(map[string]any, len(page.Metadata))
	for k, v := range page.Metadata {
		metadata[k] = v
	}
	return Chunk{
		Source:     page.Source,
		PageNumber: page.PageNumber,
		Text:       text,
		Metadata:   metadata,
	}
}

// PageKey formats the key identifying one page of one source.
func PageKey(source string, pageNumber int) string {
	return source + ":" + strconv.Itoa(pageNumber)
}

// ChunkID formats the identifier of the chunk at index on the given page.
func ChunkID(pageKey string, index int) string {
	return pageKey + ":" + strconv.Itoa(index)
}

// VectorRecord is the payload persisted for one chunk ID.
// The ID itself travels in a parallel slice, see driven.VectorStore.Add.
type VectorRecord struct {
	// Embedding is the vector produced by the embedding service.
	Embedding []float32

	// Text is the chunk content.
	Text string

	// Metadata holds the source and page_number of the chunk.
	Metadata map[string]any
}

// NewVectorRecord builds the persisted payload for a chunk and its embedding.
func NewVectorRecord(chunk Chunk, embedding []float32) VectorRecord {
	return VectorRecord{
		Embedding: embedding,
		Text:      chunk.Text,
		Metadata: map[string]any{
			MetadataSource:     chunk.Source,
			MetadataPageNumber: chunk.PageNumber,
		},
	}
}
