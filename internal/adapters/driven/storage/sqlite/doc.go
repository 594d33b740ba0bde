// Package sqlite provides a SQLite-backed implementation of the driven.VectorStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory as NNN_name.up.sql files, applied in order.
// Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// A store is a directory. The database lives in chroma.sqlite3 inside it and
// an advisory lock file (.lock) guards it while a process has it open.
//
// # Thread Safety
//
// All operations are safe for concurrent use within one process. Other
// processes are kept out by the lock file for as long as the store is open.
package sqlite
