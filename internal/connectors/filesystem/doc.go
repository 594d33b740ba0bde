// Package filesystem reads PDF documents from a local directory tree.
//
// Loader turns every matching file into page records through a normaliser
// registry. Watcher reports files that are created or written so that
// ingestion can be re-run.
package filesystem
