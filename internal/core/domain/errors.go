package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters wrap their causes with these so callers can use errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no handler exists for a document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSyncInProgress indicates an ingestion run is already active.
	ErrSyncInProgress = errors.New("sync in progress")

	// Pipeline Errors.

	// ErrLoad indicates the data directory cannot be read or a document
	// in it cannot be parsed.
	ErrLoad = errors.New("load failed")

	// ErrSplit indicates page text could not be split into chunks.
	ErrSplit = errors.New("split failed")

	// ErrEmbedding indicates embedding computation failed for the batch.
	// Nothing from the batch is written when this is returned.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStore indicates the vector store could not be opened, read or written.
	ErrStore = errors.New("vector store error")
)
