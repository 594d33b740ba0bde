// Package domain defines the core business entities for pdfsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Opaque bytes read from the data directory
//   - PageRecord: One page of text extracted from a source document
//   - Chunk: An overlapping span of page text with a deterministic ID
//   - VectorRecord: The payload persisted for one chunk ID
//   - SyncReport / IngestReport: Counts produced by a run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
