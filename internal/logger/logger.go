// Package logger provides levelled logging for the medrag CLI.
// Debug, Info and Warn messages are printed to stderr only when verbose
// mode is enabled via the --verbose flag. Errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/phuslu/log"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	backend           = newBackend(os.Stderr, false)
)

// newBackend builds a phuslu logger that renders "[LEVEL] message key=value".
func newBackend(w io.Writer, verbose bool) *log.Logger {
	level := log.ErrorLevel
	if verbose {
		level = log.DebugLevel
	}
	return &log.Logger{
		Level: level,
		Writer: &log.ConsoleWriter{
			Writer:    w,
			Formatter: formatEntry,
		},
	}
}

// formatEntry writes a single log line.
func formatEntry(w io.Writer, a *log.FormatterArgs) (int, error) {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(strings.ToUpper(a.Level))
	b.WriteString("] ")
	b.WriteString(a.Message)
	for _, kv := range a.KeyValues {
		b.WriteString(" ")
		b.WriteString(kv.Key)
		b.WriteString("=")
		b.WriteString(kv.Value)
	}
	b.WriteString("\n")
	return io.WriteString(w, b.String())
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	backend = newBackend(output, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	backend = newBackend(output, verbose)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	backend.Debug().Msgf(format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	backend.Info().Msgf(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	backend.Warn().Msgf(format, args...)
}

// Error prints an error message with the error attached as err=...
// Errors are printed regardless of verbose mode.
func Error(err error, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	backend.Error().Err(err).Msgf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
