// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentLoader: Reads a directory of PDFs into page records
//   - Normaliser: Extracts page records from one raw document
//   - NormaliserRegistry: Selects a normaliser by MIME type
//   - Splitter: Turns page records into ordered chunks
//   - PostProcessor: One step of the splitter pipeline
//   - EmbeddingService: Maps chunk text to vectors
//   - VectorStore / VectorStoreFactory: Persistent id -> vector mapping
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - DirectoryWatcher: Reports file changes for the watch command
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
