package driven

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// AIConfigValidator checks that an embedding configuration reaches a live provider.
type AIConfigValidator interface {
	ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error
}
