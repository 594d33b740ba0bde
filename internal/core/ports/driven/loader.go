package driven

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// DocumentLoader reads every matching document under a directory.
type DocumentLoader interface {
	// Load returns the page records of all documents under dir.
	// Documents are visited in lexical path order and pages in page order.
	// An empty directory yields no records and no error.
	// A missing directory or an unparseable document returns ErrLoad.
	Load(ctx context.Context, dir string) ([]domain.PageRecord, error)
}

// DirectoryWatcher reports documents created or modified under a directory.
type DirectoryWatcher interface {
	// Watch emits the path of each matching file that is created or written.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context, dir string) (<-chan string, error)
}
