// Package connectors holds the document sources pdfsync can read from.
// The filesystem connector walks a local data directory and watches it
// for new files.
package connectors
