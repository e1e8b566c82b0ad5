// Package verbose provides debug logging for pyupgradecheck.
//
// Messages are only written when verbose mode is enabled (the --verbose flag).
// All output goes to stderr by default so that structured output on stdout
// stays machine readable.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	enabled bool
	writer  io.Writer = os.Stderr
)

// Enable turns on verbose logging and allows debug messages to be printed.
//
// It performs the following operations:
//   - Acquires a write lock to ensure thread-safe modification
//   - Sets the enabled flag to true
//   - Releases the write lock
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns off verbose logging and prevents debug messages from being printed.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// IsEnabled returns whether verbose logging is currently enabled.
//
// Returns:
//   - bool: true if verbose logging is enabled, false otherwise
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetWriter sets the output writer for verbose messages.
//
// Parameters:
//   - w: The io.Writer to use for output; if nil, the writer remains unchanged
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		writer = w
	}
}

// getWriter returns the current writer with proper locking for internal use.
func getWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return writer
}

// Printf prints a formatted verbose message if enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Printf(format string, args ...any) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// Info prints an informational verbose message if enabled.
//
// Parameters:
//   - msg: The message string to print
func Info(msg string) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] %s\n", msg)
	}
}

// Infof prints a formatted informational verbose message if enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Infof(format string, args ...any) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// Tracef prints a fine-grained trace message if enabled.
//
// Trace messages are indented under the preceding [DEBUG] line so that
// per-clause evaluation details group visually with the package they belong to.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Tracef(format string, args ...any) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "        "+format+"\n", args...)
	}
}

// ConfigLoaded logs which config file was loaded if enabled.
//
// Parameters:
//   - path: The file path of the configuration that was loaded, or "" for built-in defaults
func ConfigLoaded(path string) {
	if !IsEnabled() {
		return
	}
	if path == "" {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Config loaded: built-in defaults\n")
		return
	}
	_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Config loaded: %s\n", path)
}

// RequirementSkipped logs a requirement line that did not yield a package name.
//
// Parameters:
//   - lineNo: 1-based line number within the requirements source
//   - line: The raw line text (truncated to 80 characters)
//   - reason: Why the line was skipped
func RequirementSkipped(lineNo int, line, reason string) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Requirement line %d skipped (%s): %s\n", lineNo, reason, truncate(line, 80))
	}
}

// MetadataFetched logs where the metadata for a package came from.
//
// Parameters:
//   - pkg: The package name
//   - origin: Metadata origin (e.g., "pypi", "installed")
//   - specifier: The requires_python value, or "" when absent
//   - pythonVersions: Versions named by Python classifiers, e.g. ["3", "3.12"]
func MetadataFetched(pkg, origin, specifier string, pythonVersions []string) {
	if !IsEnabled() {
		return
	}
	if specifier == "" {
		specifier = "<none>"
	}
	_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Metadata for '%s' from %s: requires_python=%s, classifiers=[%s]\n",
		pkg, origin, specifier, strings.Join(pythonVersions, ", "))
}

// VerdictReached logs the verdict produced for a package.
//
// Parameters:
//   - pkg: The package name
//   - status: The verdict (supported, incompatible, unknown)
//   - detail: Evidence description
func VerdictReached(pkg, status, detail string) {
	if IsEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] Verdict for '%s': %s (%s)\n", pkg, status, detail)
	}
}

// truncate shortens a string to the specified maximum length.
//
// Parameters:
//   - s: The string to truncate
//   - maxLen: The maximum length for the returned string (must be at least 3)
//
// Returns:
//   - string: The original or truncated string with "..." suffix if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
