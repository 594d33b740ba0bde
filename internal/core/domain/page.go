package domain

// PageRecord is one page of one source document.
// Records are produced by the loader and never modified afterwards.
type PageRecord struct {
	// Source is the file path of the origin document.
	Source string

	// PageNumber is the zero-based page index within the source.
	PageNumber int

	// Text is the full page text.
	Text string

	// Metadata carries loader metadata (source, page, total_pages).
	Metadata map[string]any
}

// PageKey returns the "{source}:{page_number}" key shared by all chunks of the page.
func (p PageRecord) PageKey() string {
	return PageKey(p.Source, p.PageNumber)
}
