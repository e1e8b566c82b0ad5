// Package warnings routes user-facing warnings (registry lookups that failed,
// metadata that could not be read) to a swappable writer.
//
// Table and text output print warnings to stderr as they happen; structured
// output swaps in a Collector so that warnings can be embedded in the report.
package warnings

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	mu         sync.RWMutex
	warnWriter io.Writer = os.Stderr
)

// Warnf writes formatted warning messages to the configured warning writer.
//
// Parameters:
//   - format: Printf-style format string for the warning message
//   - args: Variadic arguments to format into the string
func Warnf(format string, args ...any) {
	mu.RLock()
	w := warnWriter
	mu.RUnlock()
	_, _ = fmt.Fprintf(w, format, args...)
}

// WarningWriter returns the currently configured warning writer.
//
// Returns:
//   - io.Writer: The currently configured writer for warning messages
func WarningWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return warnWriter
}

// SetWarningWriter swaps the warning writer and returns a restore function.
//
// It performs the following operations:
//   - Saves the previous warning writer for restoration
//   - Sets the new warning writer (defaults to os.Stderr if nil)
//   - Returns a function that restores the previous writer when called
//
// Parameters:
//   - w: The new io.Writer to use; if nil, defaults to os.Stderr
//
// Returns:
//   - func(): A restore function that sets the writer back to the previous value
func SetWarningWriter(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()

	previous := warnWriter
	if w == nil {
		warnWriter = os.Stderr
	} else {
		warnWriter = w
	}

	return func() {
		mu.Lock()
		defer mu.Unlock()
		warnWriter = previous
	}
}

// Collector is an io.Writer that keeps each non-empty warning line.
//
// It is safe for concurrent use; registry fetches run in parallel and may
// warn at the same time.
type Collector struct {
	mu       sync.Mutex
	messages []string
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Write splits p into lines, trims them and stores the non-empty ones.
func (c *Collector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			c.messages = append(c.messages, line)
		}
	}
	return len(p), nil
}

// Messages returns a copy of the collected warnings in write order.
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	copy(out, c.messages)
	return out
}
