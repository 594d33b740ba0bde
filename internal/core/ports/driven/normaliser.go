package driven

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// Normaliser extracts page records from a raw document.
// Each normaliser handles specific MIME types.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise returns one record per page, in page order.
	// PageNumber is zero-based and Source is raw.URI.
	Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.PageRecord, error)
}
