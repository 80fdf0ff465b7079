// Package logger provides leveled logging for the riskanalyzer CLI.
// Debug, Info and Warn lines are printed only when verbose mode is enabled
// via the --verbose flag; Error lines are always printed. Output goes to
// stderr so it never mixes with report output.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
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
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	printf(true, "[DEBUG] "+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	printf(true, "\n=== %s ===\n", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	printf(true, "[INFO] "+format+"\n", args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	printf(true, "[WARN] "+format+"\n", args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	printf(false, "[ERROR] "+format+"\n", args...)
}

// Preview prints the first limit runes of text under label at debug level.
func Preview(label, text string, limit int) {
	if !IsVerbose() {
		return
	}
	r := []rune(text)
	if limit > 0 && len(r) > limit {
		text = string(r[:limit]) + "..."
	}
	printf(true, "[DEBUG] %s: %s\n", label, text)
}

func printf(verboseOnly bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verboseOnly && !verbose {
		return
	}
	fmt.Fprintf(output, format, args...)
}
