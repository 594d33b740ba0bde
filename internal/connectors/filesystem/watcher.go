package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.DirectoryWatcher = (*Watcher)(nil)

// Watcher reports matching files that are created or written under a
// directory tree on the local disk. Removals and renames are ignored.
type Watcher struct {
	pattern string

	mu     sync.Mutex
	closed bool
	active []*fsnotify.Watcher
}

// NewWatcher creates a watcher. An empty pattern selects DefaultPattern.
func NewWatcher(pattern string) *Watcher {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Watcher{pattern: filepath.ToSlash(pattern)}
}

// Watch starts watching dir and every non-hidden subdirectory.
// The returned channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, errors.New("watcher is closed")
	}
	w.mu.Unlock()

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: root path error: %w", domain.ErrLoad, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrLoad, dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := addTree(fw, dir); err != nil {
		fw.Close()
		return nil, err
	}

	w.mu.Lock()
	w.active = append(w.active, fw)
	w.mu.Unlock()

	out := make(chan string)
	go w.run(ctx, fw, dir, out)

	return out, nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, root string, out chan<- string) {
	defer close(out)
	defer fw.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}

			// New directories are watched as they appear.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if rel, err := filepath.Rel(root, event.Name); err == nil && !isHidden(rel) {
						if err := addTree(fw, event.Name); err != nil {
							logger.Warn("watch %s: %v", event.Name, err)
						}
					}
					continue
				}
			}

			path, ok := w.handleFsEvent(root, event)
			if !ok {
				continue
			}

			select {
			case out <- path:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// handleFsEvent returns the file path to report for an event, if any.
// Only creates and writes of visible files matching the pattern count.
func (w *Watcher) handleFsEvent(root string, event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	rel, err := filepath.Rel(root, event.Name)
	if err != nil || isHidden(rel) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}

	ok, err := doublestar.Match(w.pattern, filepath.ToSlash(rel))
	if err != nil || !ok {
		return "", false
	}

	return event.Name, true
}

// Close stops every active watch. Watch fails after Close.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	for _, fw := range w.active {
		if err := fw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	w.active = nil
	return errors.Join(errs...)
}

// addTree adds dir and its non-hidden subdirectories to the watcher.
func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
