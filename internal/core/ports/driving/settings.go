package driving

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	// An empty model selects the provider default.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks that the current settings can drive an ingestion run.
	Validate() error

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig(ctx context.Context) error
}
