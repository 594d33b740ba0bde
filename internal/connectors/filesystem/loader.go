package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/logger"
)

// DefaultPattern matches PDF files at any depth.
const DefaultPattern = "**/*.pdf"

// pdfMIMEType is the only content type accepted by the loader.
const pdfMIMEType = "application/pdf"

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader reads matching files from a directory and normalises them into
// page records.
type Loader struct {
	fs          afero.Fs
	pattern     string
	normalisers driven.NormaliserRegistry
}

// NewLoader creates a loader over fsys. An empty pattern selects DefaultPattern.
func NewLoader(fsys afero.Fs, pattern string, normalisers driven.NormaliserRegistry) *Loader {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Loader{
		fs:          fsys,
		pattern:     filepath.ToSlash(pattern),
		normalisers: normalisers,
	}
}

// Load returns the pages of every matching file under dir.
// Files are read in lexical order of their relative path.
func (l *Loader) Load(ctx context.Context, dir string) ([]domain.PageRecord, error) {
	if !doublestar.ValidatePattern(l.pattern) {
		return nil, fmt.Errorf("%w: invalid pattern %q", domain.ErrInvalidInput, l.pattern)
	}

	files, err := l.discover(dir)
	if err != nil {
		return nil, err
	}

	logger.Debug("found %d documents in %s", len(files), dir)

	var pages []domain.PageRecord
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		filePages, err := l.loadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		pages = append(pages, filePages...)
	}

	return pages, nil
}

// discover lists matching, non-hidden files under dir in lexical order.
func (l *Loader) discover(dir string) ([]string, error) {
	info, err := l.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: root path error: %w", domain.ErrLoad, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrLoad, dir)
	}

	var files []string
	err = afero.Walk(l.fs, dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if isHidden(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		if l.matches(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walk %s: %w", domain.ErrLoad, dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// matches reports whether a path relative to the root matches the pattern.
func (l *Loader) matches(rel string) bool {
	ok, err := doublestar.Match(l.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// loadFile reads one file, checks its content type and normalises it.
func (l *Loader) loadFile(ctx context.Context, path string) ([]domain.PageRecord, error) {
	content, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrLoad, path, err)
	}

	detected := mimetype.Detect(content)
	if !detected.Is(pdfMIMEType) {
		return nil, fmt.Errorf("%w: %s is not a PDF (detected %s)", domain.ErrLoad, path, detected.String())
	}

	raw := &domain.RawDocument{
		URI:      path,
		MIMEType: pdfMIMEType,
		Content:  content,
		Metadata: map[string]any{
			"size": int64(len(content)),
		},
	}

	pages, err := l.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLoad, path, err)
	}

	return pages, nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not considered hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
