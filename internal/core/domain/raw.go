package domain

// RawDocument represents opaque bytes read by a loader.
// It is the loader's output before normalisation into pages.
type RawDocument struct {
	// URI is the original location (file path).
	URI string

	// MIMEType is the detected content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains loader-specific key-value pairs.
	Metadata map[string]any
}
