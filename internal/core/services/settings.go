package services

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir         = "ingest.data_dir"
	keyPattern         = "ingest.pattern"
	keyStrategy        = "splitter.strategy"
	keyChunkSize       = "splitter.chunk_size"
	keyChunkOverlap    = "splitter.chunk_overlap"
	keySplitOnRegex    = "splitter.split_on_regex"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDimensions = "embedding.dimensions"
	keyEmbedRPS        = "embedding.requests_per_second"
	keyStorePath       = "store.path"
)

// EnvOpenAIKey is consulted when the OpenAI provider has no stored API key.
//
//nolint:gosec // G101: environment variable name, not a credential.
const EnvOpenAIKey = "OPENAI_API_KEY"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
// aiValidator may be nil, in which case provider validation is skipped.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Embedding.Provider)
	model := s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[provider])

	apiKey := s.configStore.GetString(keyEmbedAPIKey)
	if apiKey == "" && provider == domain.AIProviderOpenAI {
		apiKey = os.Getenv(EnvOpenAIKey)
	}

	settings := &domain.AppSettings{
		Ingest: domain.IngestSettings{
			DataDir: s.getString(keyDataDir, defaults.Ingest.DataDir),
			Pattern: s.getString(keyPattern, defaults.Ingest.Pattern),
		},
		Splitter: domain.SplitterSettings{
			Strategy:     s.getStrategy(defaults.Splitter.Strategy),
			ChunkSize:    s.getInt(keyChunkSize, defaults.Splitter.ChunkSize),
			ChunkOverlap: s.getInt(keyChunkOverlap, defaults.Splitter.ChunkOverlap),
			SplitOnRegex: s.getBool(keySplitOnRegex, defaults.Splitter.SplitOnRegex),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          provider,
			Model:             model,
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - adapters pick their own
			APIKey:            apiKey,
			Dimensions:        s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, defaults.Embedding.RequestsPerSecond),
		},
		Store: domain.StoreSettings{
			Path: s.getString(keyStorePath, defaults.Store.Path),
		},
	}

	return settings, nil
}

// Save persists application settings.
// An API key that only came from the environment is not written to the file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyDataDir, settings.Ingest.DataDir},
		{keyPattern, settings.Ingest.Pattern},
		{keyStrategy, settings.Splitter.Strategy.String()},
		{keyChunkSize, settings.Splitter.ChunkSize},
		{keyChunkOverlap, settings.Splitter.ChunkOverlap},
		{keySplitOnRegex, settings.Splitter.SplitOnRegex},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyStorePath, settings.Store.Path},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if key := settings.Embedding.APIKey; key != "" && key != os.Getenv(EnvOpenAIKey) {
		if err := s.configStore.Set(keyEmbedAPIKey, key); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}

	return s.configStore.Save()
}

// SetEmbeddingProvider configures the embedding provider.
// An empty model selects the provider default.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" && settings.Embedding.Provider == provider {
		apiKey = settings.Embedding.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	if provider != settings.Embedding.Provider {
		// A base URL belongs to the previous provider.
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	settings.Embedding.APIKey = apiKey
	settings.Embedding.Dimensions = 0

	return s.Save(settings)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyEmbedProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStrategy(defaultVal domain.SplitStrategy) domain.SplitStrategy {
	strategy := domain.SplitStrategy(s.configStore.GetString(keyStrategy))
	if !strategy.IsValid() {
		return defaultVal
	}
	return strategy
}
