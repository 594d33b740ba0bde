package services

import (
	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/logger"
)

// AssignChunkIDs returns a copy of chunks with SequenceIndex and ID set.
//
// Chunks must arrive grouped by page, left to right within a page, as the
// splitter emits them. The index restarts at zero whenever the page key
// changes. A page that shows up again after another page restarts at zero
// too, which produces duplicate IDs; this is logged and left for the sync
// to reject.
func AssignChunkIDs(chunks []domain.Chunk) []domain.Chunk {
	out := make([]domain.Chunk, len(chunks))
	seen := make(map[string]struct{})

	var (
		lastPageKey string
		index       int
	)
	for i, chunk := range chunks {
		pageKey := chunk.PageKey()
		if i > 0 && pageKey == lastPageKey {
			index++
		} else {
			index = 0
			if _, ok := seen[pageKey]; ok {
				logger.Warn("chunks of page %s are not contiguous, IDs may collide", pageKey)
			}
			seen[pageKey] = struct{}{}
		}

		chunk.SequenceIndex = index
		chunk.ID = domain.ChunkID(pageKey, index)
		out[i] = chunk
		lastPageKey = pageKey
	}
	return out
}
