// Package cli implements the pdfsync command line.
//
// Commands reach the core only through driving ports. The binary wires the
// concrete adapters in through SetWiring before calling Execute.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driving"
	"github.com/custodia-labs/pdfsync/internal/logger"
)

// DefaultConfigFile is the settings file read when --config is not given.
const DefaultConfigFile = "pdfsync.toml"

// Wiring builds the services a command needs once flags are parsed.
type Wiring struct {
	// Settings opens the settings service backed by configPath.
	Settings func(configPath string) (driving.SettingsService, error)

	// Ingest builds the ingestion pipeline for validated settings.
	Ingest func(ctx context.Context, settings *domain.AppSettings) (driving.IngestService, error)

	// Watcher returns a watcher for files matching the ingest pattern.
	Watcher func(settings *domain.AppSettings) driven.DirectoryWatcher
}

var (
	version = "dev"
	wiring  Wiring

	configPath string
	dataDir    string
	storePath  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfsync",
	Short: "Incrementally sync a directory of PDFs into a vector store",
	Long: `pdfsync loads every PDF under the data directory, splits each page into
overlapping chunks and adds the chunks that are not yet stored to a
persistent vector store, together with their embeddings.

Chunk IDs have the form "{source}:{page}:{index}", so running pdfsync again
over the same files adds nothing and only new pages are embedded.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runIngest,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", DefaultConfigFile, "settings file (TOML)")
	flags.StringVar(&dataDir, "data", "", "directory to read PDFs from (overrides ingest.data_dir)")
	flags.StringVar(&storePath, "db", "", "vector store directory (overrides store.path)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// SetWiring installs the adapter constructors used by every command.
func SetWiring(w Wiring) {
	wiring = w
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. Command output goes to stdout.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	svc, err := newIngestService(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer closeIngest(svc)

	report, err := svc.Run(cmd.Context())
	printReport(cmd, report, err)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return nil
}

// loadSettings reads the settings file, applies flag overrides and validates.
func loadSettings() (*domain.AppSettings, error) {
	svc, err := openSettingsService()
	if err != nil {
		return nil, err
	}

	settings, err := svc.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if dataDir != "" {
		settings.Ingest.DataDir = dataDir
	}
	if storePath != "" {
		settings.Store.Path = storePath
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", configPath, err)
	}
	return settings, nil
}

func openSettingsService() (driving.SettingsService, error) {
	if wiring.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	svc, err := wiring.Settings(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	return svc, nil
}

func newIngestService(ctx context.Context, settings *domain.AppSettings) (driving.IngestService, error) {
	if wiring.Ingest == nil {
		return nil, errors.New("ingest service not configured")
	}
	return wiring.Ingest(ctx, settings)
}

// closeIngest releases svc. A failure only gets logged since the run is over.
func closeIngest(svc driving.IngestService) {
	if err := svc.Close(); err != nil {
		logger.Warn("closing ingest service: %v", err)
	}
}

// printReport writes the document counts to stdout.
// Counts are printed once the store has been read and diffed,
// even when the embedding or the write failed afterwards.
func printReport(cmd *cobra.Command, report *domain.IngestReport, err error) {
	if report == nil {
		return
	}
	if err != nil && report.Sync.Pending == 0 {
		return
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Number of existing documents in DB: %d\n", report.Sync.Existing)
	if report.Sync.Pending > 0 {
		fmt.Fprintf(out, "Number of new documents to be added: %d\n", report.Sync.Pending)
	} else {
		fmt.Fprintln(out, "No new documents to be added.")
	}
}
