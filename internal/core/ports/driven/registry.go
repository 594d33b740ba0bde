package driven

import (
	"context"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document
// based on its MIME type.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the matching normaliser.
	// Returns ErrUnsupportedType when no normaliser handles raw.MIMEType.
	Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.PageRecord, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
