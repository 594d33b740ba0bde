package domain

// SyncReport summarises one synchronisation against the vector store.
type SyncReport struct {
	// Existing is the number of IDs in the store before the write.
	Existing int

	// Considered is the number of chunks handed to the sync.
	Considered int

	// Pending is the number of chunks found missing from the store.
	// It is set before embedding starts, so it survives a failed write.
	Pending int

	// New is the number of chunks embedded and written.
	New int

	// Skipped is the number of chunks whose ID was already stored.
	Skipped int

	// AddedIDs lists the IDs written, in input order.
	AddedIDs []string

	// Total is the number of IDs stored once the sync finished.
	Total int
}

// IngestReport summarises a full load, split, identify and sync pass.
type IngestReport struct {
	// Documents is the number of distinct source files loaded.
	Documents int

	// Pages is the number of page records loaded.
	Pages int

	// Chunks is the number of chunks produced by the splitter.
	Chunks int

	// Sync is the outcome of the vector store synchronisation.
	Sync SyncReport
}
