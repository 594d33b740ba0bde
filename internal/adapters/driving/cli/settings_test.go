package cli

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() { stdin = old })
}

func TestSettingsShow(t *testing.T) {
	w := newStaticWiring()
	w.settings.settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-1234567890abcdef",
	}

	out, err := execute(t, w.wiring(), "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "Data directory: "+domain.DefaultDataDir)
	assert.Contains(t, out, "Chunk size: 900")
	assert.Contains(t, out, "Chunk overlap: 100")
	assert.Contains(t, out, "Model: text-embedding-3-small")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "Path: "+domain.DefaultStorePath)
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_ReportsInvalidConfig(t *testing.T) {
	w := newStaticWiring()
	w.settings.validateErr = domain.ErrInvalidInput

	out, err := execute(t, w.wiring(), "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "Warning: invalid input")
}

func TestSettingsEmbedding_OpenAI(t *testing.T) {
	withStdin(t, "2\n\nsk-test-key\n")
	w := newStaticWiring()

	out, err := execute(t, w.wiring(), "settings", "embedding")
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, w.settings.setProvider)
	assert.Equal(t, domain.DefaultEmbeddingModels()[domain.AIProviderOpenAI], w.settings.setModel)
	assert.Equal(t, "sk-test-key", w.settings.setKey)
	assert.Contains(t, out, "Validating configuration... OK")
}

func TestSettingsEmbedding_OllamaCustomModel(t *testing.T) {
	withStdin(t, "1\nmxbai-embed-large\n")
	w := newStaticWiring()

	out, err := execute(t, w.wiring(), "settings", "embedding")
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOllama, w.settings.setProvider)
	assert.Equal(t, "mxbai-embed-large", w.settings.setModel)
	assert.Empty(t, w.settings.setKey)
	assert.NotContains(t, out, "API key")
}

func TestSettingsEmbedding_ValidationFails(t *testing.T) {
	withStdin(t, "\n\n")
	w := newStaticWiring()
	w.settings.pingErr = errBoom

	out, err := execute(t, w.wiring(), "settings", "embedding")
	require.Error(t, err)

	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, out, "FAILED: boom")
}

func TestReadPassword_FallsBackToLine(t *testing.T) {
	withStdin(t, "  secret  \n")
	assert.Equal(t, "secret", readPassword(bufio.NewReader(stdin)))
}
