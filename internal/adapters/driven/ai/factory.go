// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	ollamaembed "github.com/custodia-labs/pdfsync/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/pdfsync/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable: %w", domain.ErrEmbedding, settings.Provider, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(ctx, settings)
	if err != nil {
		return err
	}
	return svc.Close()
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: embedding settings are required", domain.ErrInvalidInput)
	}
	if !settings.IsConfigured() {
		if settings.Provider.IsValid() {
			return nil, fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, settings.Provider)
		}
		return nil, fmt.Errorf("%w: unsupported embedding provider: %q", domain.ErrInvalidInput, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider: %q", domain.ErrInvalidInput, settings.Provider)
	}
}

// newLimiter returns nil when throttling is disabled.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// dimensionsFor prefers an explicit override, then the known model size.
func dimensionsFor(settings *domain.EmbeddingSettings) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	return domain.EmbeddingDimensions()[settings.Model]
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := dimensionsFor(settings)
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
		Limiter:    newLimiter(settings.RequestsPerSecond),
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensionsFor(settings),
		Limiter:    newLimiter(settings.RequestsPerSecond),
	})
}
