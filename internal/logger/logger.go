// Package logger provides verbose logging for the pdfsync CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow the ingestion pipeline.
// Errors are always printed.
package logger

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	std               = newCharmLogger(os.Stderr, false)
)

func newCharmLogger(w io.Writer, v bool) *charmlog.Logger {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: false,
		Level:           levelFor(v),
	})
	l.SetFormatter(charmlog.TextFormatter)
	return l
}

func levelFor(v bool) charmlog.Level {
	if v {
		return charmlog.DebugLevel
	}
	return charmlog.ErrorLevel
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	std.SetLevel(levelFor(v))
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	std = newCharmLogger(output, verbose)
}

func current() *charmlog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	current().Debugf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	current().Infof("=== %s ===", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	current().Infof(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	current().Warnf(format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	current().Errorf(format, args...)
}
