// Command pdfsync incrementally syncs a directory of PDFs into a vector store.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/custodia-labs/pdfsync/internal/adapters/driven/ai"
	"github.com/custodia-labs/pdfsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfsync/internal/connectors/filesystem"
	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driving"
	"github.com/custodia-labs/pdfsync/internal/core/services"
	"github.com/custodia-labs/pdfsync/internal/logger"
	"github.com/custodia-labs/pdfsync/internal/normalisers"
	"github.com/custodia-labs/pdfsync/internal/normalisers/pdf"
	"github.com/custodia-labs/pdfsync/internal/postprocessors"
)

var version = "dev"

func main() {
	// OPENAI_API_KEY may come from a .env file next to the data.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetWiring(cli.Wiring{
		Settings: openSettings,
		Ingest:   buildIngest,
		Watcher: func(settings *domain.AppSettings) driven.DirectoryWatcher {
			return filesystem.NewWatcher(settings.Ingest.Pattern)
		},
	})

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func openSettings(configPath string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

// buildIngest wires the load, split and sync adapters for one settings snapshot.
func buildIngest(_ context.Context, settings *domain.AppSettings) (driving.IngestService, error) {
	registry := normalisers.NewRegistry(pdf.New())
	loader := filesystem.NewLoader(afero.NewOsFs(), settings.Ingest.Pattern, registry)

	splitter, err := postprocessors.NewSplitter(settings.Splitter)
	if err != nil {
		return nil, err
	}

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}

	syncer := services.NewVectorSync(sqlite.NewFactory(settings.Store.Path), embedder)
	return services.NewIngestService(loader, splitter, syncer, settings.Ingest.DataDir), nil
}
