package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// Default settings values. Relative paths resolve against the working directory.
const (
	DefaultDataDir      = "data"
	DefaultPattern      = "**/*.pdf"
	DefaultChunkSize    = 900
	DefaultChunkOverlap = 100
	DefaultStorePath    = "./chroma_langchain_db"
)

// SplitStrategy names the post-processor that creates chunks from page text.
type SplitStrategy string

// Available split strategies.
const (
	// SplitStrategyRecursive splits on paragraph, line, word and character
	// boundaries in that order until chunks fit the configured size.
	SplitStrategyRecursive SplitStrategy = "recursive"

	// SplitStrategyFixed slides a fixed-size character window over the text.
	SplitStrategyFixed SplitStrategy = "chunker"
)

// IsValid returns true if the strategy is recognised.
func (s SplitStrategy) IsValid() bool {
	switch s {
	case SplitStrategyRecursive, SplitStrategyFixed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SplitStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s SplitStrategy) Description() string {
	switch s {
	case SplitStrategyRecursive:
		return "Recursive (paragraph, line, word boundaries)"
	case SplitStrategyFixed:
		return "Fixed window (character offsets)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns the supported providers in menu order.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// DefaultEmbeddingModels returns the default model for each provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// IngestSettings controls where documents are read from.
type IngestSettings struct {
	// DataDir is the directory scanned for PDF files.
	DataDir string

	// Pattern is the doublestar glob matched relative to DataDir.
	Pattern string
}

// SplitterSettings controls how page text is chunked.
type SplitterSettings struct {
	// Strategy selects the chunk-creating post-processor.
	Strategy SplitStrategy

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by neighbouring chunks.
	ChunkOverlap int

	// SplitOnRegex treats separators as regular expressions.
	// Only false is supported; separators are always literal.
	SplitOnRegex bool
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty selects the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's default vector size when non-zero.
	Dimensions int

	// RequestsPerSecond throttles embedding requests. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// StoreSettings controls the persistent vector store.
type StoreSettings struct {
	// Path is the directory holding the store files.
	Path string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Ingest    IngestSettings
	Splitter  SplitterSettings
	Embedding EmbeddingSettings
	Store     StoreSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Ingest: IngestSettings{
			DataDir: DefaultDataDir,
			Pattern: DefaultPattern,
		},
		Splitter: SplitterSettings{
			Strategy:     SplitStrategyRecursive,
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
		},
		Store: StoreSettings{
			Path: DefaultStorePath,
		},
	}
}

// Validate reports the first problem found in the settings.
// All returned errors wrap ErrInvalidInput.
func (s AppSettings) Validate() error {
	if strings.TrimSpace(s.Ingest.DataDir) == "" {
		return fmt.Errorf("%w: data directory is required", ErrInvalidInput)
	}
	if strings.TrimSpace(s.Ingest.Pattern) == "" {
		return fmt.Errorf("%w: file pattern is required", ErrInvalidInput)
	}
	if strings.TrimSpace(s.Store.Path) == "" {
		return fmt.Errorf("%w: store path is required", ErrInvalidInput)
	}
	if !s.Splitter.Strategy.IsValid() {
		return fmt.Errorf("%w: unknown split strategy %q", ErrInvalidInput, s.Splitter.Strategy)
	}
	if s.Splitter.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, s.Splitter.ChunkSize)
	}
	if s.Splitter.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk overlap cannot be negative, got %d", ErrInvalidInput, s.Splitter.ChunkOverlap)
	}
	if s.Splitter.ChunkOverlap >= s.Splitter.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			ErrInvalidInput, s.Splitter.ChunkOverlap, s.Splitter.ChunkSize)
	}
	if s.Splitter.SplitOnRegex {
		return fmt.Errorf("%w: regex separators are not supported", ErrInvalidInput)
	}
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	if !s.Embedding.IsConfigured() {
		return fmt.Errorf("%w: API key required for %s", ErrInvalidInput, s.Embedding.Provider)
	}
	if s.Embedding.Dimensions < 0 {
		return fmt.Errorf("%w: embedding dimensions cannot be negative", ErrInvalidInput)
	}
	if s.Embedding.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second cannot be negative", ErrInvalidInput)
	}
	return nil
}
