package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/romdo/go-debounce"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driving"
	"github.com/custodia-labs/pdfsync/internal/logger"
)

// Debounce defaults for the watch command.
const (
	DefaultWatchDelay   = 2 * time.Second
	DefaultWatchMaxWait = 30 * time.Second
)

var (
	watchDelay   time.Duration
	watchMaxWait time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest, then re-ingest whenever PDFs are added or changed",
	Long: `Runs one ingestion and then watches the data directory. When PDF files
are created or written, ingestion runs again after the directory has been
quiet for --delay, or at most --max-wait after the first change.

Removed files are ignored: the vector store is only ever added to.
Press Ctrl-C to stop.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDelay, "delay", DefaultWatchDelay, "quiet period before re-ingesting")
	watchCmd.Flags().DurationVar(&watchMaxWait, "max-wait", DefaultWatchMaxWait, "longest a change waits before re-ingesting")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if wiring.Watcher == nil {
		return errors.New("directory watcher not configured")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := newIngestService(ctx, settings)
	if err != nil {
		return err
	}
	defer closeIngest(svc)

	if err := ingestOnce(ctx, cmd, svc); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	events, err := wiring.Watcher(settings).Watch(ctx, settings.Ingest.DataDir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", settings.Ingest.DataDir, err)
	}
	cmd.Printf("Watching %s for new PDFs...\n", settings.Ingest.DataDir)

	return watchLoop(ctx, cmd, svc, events, watchDelay, watchMaxWait)
}

// watchLoop re-runs ingestion after bursts of file events.
// Runs happen on this goroutine, one at a time; events that arrive during a
// run schedule exactly one follow-up run.
func watchLoop(
	ctx context.Context,
	cmd *cobra.Command,
	svc driving.IngestService,
	events <-chan string,
	delay, maxWait time.Duration,
) error {
	trigger := make(chan struct{}, 1)
	debounced, cancel := debounce.NewWithMaxWait(delay, maxWait, func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil

		case path, ok := <-events:
			if !ok {
				return nil
			}
			logger.Debug("Changed: %s", path)
			debounced()

		case <-trigger:
			if err := ingestOnce(ctx, cmd, svc); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				cmd.PrintErrf("Error: ingest failed: %v\n", err)
			}
		}
	}
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, svc driving.IngestService) error {
	report, err := svc.Run(ctx)
	if errors.Is(err, domain.ErrSyncInProgress) {
		logger.Debug("Skipping run, another ingestion is active")
		return nil
	}
	printReport(cmd, report, err)
	return err
}
