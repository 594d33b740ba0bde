// Package file provides the TOML-backed implementation of driven.ConfigStore.
//
// Keys are addressed with dot notation ("splitter.chunk_size") and written
// back to disk as nested TOML tables.
package file
