// Package pdf extracts per-page text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
	"github.com/custodia-labs/pdfsync/internal/logger"
)

// MIMEType is the MIME type handled by this normaliser.
const MIMEType = "application/pdf"

// Metadata keys set on every page record.
const (
	MetaSource     = "source"
	MetaPage       = "page"
	MetaTotalPages = "total_pages"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// pageExtractor returns the plain text of every page, in page order.
// A page without content yields an empty string.
type pageExtractor func(content []byte) ([]string, error)

// Normaliser handles PDF documents using a pure Go parser.
type Normaliser struct {
	extract pageExtractor
}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{extract: extractPages}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Normalise returns one page record per PDF page. Page numbers are
// zero-based so that record i is the i-th page of the file.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.PageRecord, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: raw document is nil", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts, err := n.safeExtract(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", raw.URI, err)
	}

	pages := make([]domain.PageRecord, 0, len(texts))
	for i, text := range texts {
		meta := copyMetadata(raw.Metadata)
		if meta == nil {
			meta = make(map[string]any, 3)
		}
		meta[MetaSource] = raw.URI
		meta[MetaPage] = i
		meta[MetaTotalPages] = len(texts)

		pages = append(pages, domain.PageRecord{
			Source:     raw.URI,
			PageNumber: i,
			Text:       text,
			Metadata:   meta,
		})
	}

	logger.Debug("extracted %d pages from %s", len(pages), raw.URI)
	return pages, nil
}

// safeExtract runs the extractor, turning parser panics into errors.
// The PDF parser panics on some malformed inputs.
func (n *Normaliser) safeExtract(content []byte) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	return n.extract(content)
}

// extractPages reads every page with ledongthuc/pdf.
func extractPages(content []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	total := reader.NumPage()
	texts := make([]string, 0, total)

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		texts = append(texts, text)
	}

	return texts, nil
}

// copyMetadata creates a shallow copy of the metadata map.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
