package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driving"
	"github.com/custodia-labs/pdfsync/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs load, split, identify and sync as one sequential pass.
type IngestService struct {
	loader   driven.DocumentLoader
	splitter driven.Splitter
	syncer   driving.ChunkSynchroniser
	dataDir  string

	mu      sync.Mutex
	running bool
}

// NewIngestService creates an ingest service reading PDFs from dataDir.
func NewIngestService(
	loader driven.DocumentLoader,
	splitter driven.Splitter,
	syncer driving.ChunkSynchroniser,
	dataDir string,
) *IngestService {
	return &IngestService{
		loader:   loader,
		splitter: splitter,
		syncer:   syncer,
		dataDir:  dataDir,
	}
}

// Run performs one ingestion. Concurrent calls fail with domain.ErrSyncInProgress.
func (s *IngestService) Run(ctx context.Context) (*domain.IngestReport, error) {
	if !s.begin() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.end()

	report := &domain.IngestReport{}

	logger.Section("Load")
	pages, err := s.loader.Load(ctx, s.dataDir)
	if err != nil {
		return report, err
	}
	report.Pages = len(pages)
	report.Documents = countSources(pages)
	logger.Info("Loaded %d pages from %d documents in %s", report.Pages, report.Documents, s.dataDir)

	logger.Section("Split")
	chunks, err := s.splitter.Split(ctx, pages)
	if err != nil {
		return report, err
	}
	report.Chunks = len(chunks)
	logger.Info("Split into %d chunks", report.Chunks)

	logger.Section("Identify")
	chunks = AssignChunkIDs(chunks)

	logger.Section("Sync")
	syncReport, err := s.syncer.Sync(ctx, chunks)
	if syncReport != nil {
		report.Sync = *syncReport
	}
	if err != nil {
		return report, err
	}
	logger.Info("Sync complete: %d existing, %d added, %d skipped, %d stored",
		report.Sync.Existing, report.Sync.New, report.Sync.Skipped, report.Sync.Total)
	return report, nil
}

// Close releases the synchroniser and the embedding service behind it.
func (s *IngestService) Close() error {
	return s.syncer.Close()
}

// Running reports whether a run is in progress.
func (s *IngestService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *IngestService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *IngestService) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func countSources(pages []domain.PageRecord) int {
	sources := make(map[string]struct{})
	for _, p := range pages {
		sources[p.Source] = struct{}{}
	}
	return len(sources)
}
