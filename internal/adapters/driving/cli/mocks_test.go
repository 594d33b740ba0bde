package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error

	setProvider domain.AIProvider
	setModel    string
	setKey      string
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.setProvider, m.setModel, m.setKey = provider, model, apiKey
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) Validate() error                 { return m.validateErr }

func (m *mockSettingsService) ValidateEmbeddingConfig(_ context.Context) error {
	return m.pingErr
}

// mockIngestService returns canned reports and counts runs.
type mockIngestService struct {
	mu      sync.Mutex
	reports []*domain.IngestReport
	errs    []error
	runs    int
	closes  int
	ran     chan struct{}
}

var _ driving.IngestService = (*mockIngestService)(nil)

func (m *mockIngestService) Run(_ context.Context) (*domain.IngestReport, error) {
	m.mu.Lock()
	i := m.runs
	m.runs++
	var report *domain.IngestReport
	var err error
	if i < len(m.reports) {
		report = m.reports[i]
	} else if len(m.reports) > 0 {
		report = m.reports[len(m.reports)-1]
	}
	if i < len(m.errs) {
		err = m.errs[i]
	}
	m.mu.Unlock()

	if m.ran != nil {
		m.ran <- struct{}{}
	}
	return report, err
}

func (m *mockIngestService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

func (m *mockIngestService) closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

func (m *mockIngestService) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}

// stubWatcher hands out a channel controlled by the test.
type stubWatcher struct {
	events chan string
	dir    string
}

var _ driven.DirectoryWatcher = (*stubWatcher)(nil)

func (w *stubWatcher) Watch(_ context.Context, dir string) (<-chan string, error) {
	w.dir = dir
	return w.events, nil
}

func syncReport(existing, pending int) *domain.IngestReport {
	return &domain.IngestReport{Sync: domain.SyncReport{Existing: existing, Pending: pending, New: pending}}
}

// execute runs the root command with args and fresh flag state.
func execute(t *testing.T, w Wiring, args ...string) (string, error) {
	t.Helper()

	oldWiring := wiring
	wiring = w
	configPath, dataDir, storePath, verbose = DefaultConfigFile, "", "", false
	watchDelay, watchMaxWait = DefaultWatchDelay, DefaultWatchMaxWait
	t.Cleanup(func() {
		wiring = oldWiring
		rootCmd.SetArgs([]string{})
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

// staticWiring wires fixed mocks and records what the commands asked for.
type staticWiring struct {
	settings *mockSettingsService
	ingest   *mockIngestService
	watcher  *stubWatcher

	configPath  string
	ingestCalls int
	gotSettings *domain.AppSettings
}

func (s *staticWiring) wiring() Wiring {
	return Wiring{
		Settings: func(path string) (driving.SettingsService, error) {
			s.configPath = path
			return s.settings, nil
		},
		Ingest: func(_ context.Context, settings *domain.AppSettings) (driving.IngestService, error) {
			s.ingestCalls++
			s.gotSettings = settings
			return s.ingest, nil
		},
		Watcher: func(_ *domain.AppSettings) driven.DirectoryWatcher {
			return s.watcher
		},
	}
}
