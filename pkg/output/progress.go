package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Progress provides a single-line progress indicator for metadata lookups.
//
// Fields:
//   - writer: Destination for progress output (typically os.Stderr)
//   - total: Total number of steps in the operation
//   - current: Current step number
//   - message: Descriptive message displayed with the progress
//   - mu: Mutex to protect concurrent access to progress state
//   - enabled: Whether progress output is enabled
//   - lastWidth: Width of the last rendered progress line for proper clearing
type Progress struct {
	writer    io.Writer
	total     int
	current   int
	message   string
	mu        sync.Mutex
	enabled   bool
	lastWidth int
}

// NewProgress creates a new, enabled progress indicator.
func NewProgress(writer io.Writer, total int, message string) *Progress {
	return &Progress{
		writer:  writer,
		total:   total,
		message: message,
		enabled: true,
	}
}

// SetEnabled enables or disables progress output.
func (p *Progress) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// Increment advances the progress by one step and re-renders the display.
// It is safe for concurrent use.
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	if p.enabled && p.total > 0 {
		p.render()
	}
}

// Clear erases the progress line so that regular output starts on a clean line.
func (p *Progress) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled && p.lastWidth > 0 {
		_, _ = fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", p.lastWidth))
		p.lastWidth = 0
	}
}

// render writes the progress line. Callers hold p.mu.
func (p *Progress) render() {
	percentage := float64(p.current) / float64(p.total) * 100
	line := fmt.Sprintf("\r%s: %d/%d (%.0f%%)", p.message, p.current, p.total, percentage)

	if len(line) < p.lastWidth {
		line += strings.Repeat(" ", p.lastWidth-len(line))
	}
	p.lastWidth = len(line)

	_, _ = fmt.Fprint(p.writer, line)

	// Flush stderr to ensure progress renders immediately in CI environments
	if f, ok := p.writer.(*os.File); ok {
		_ = f.Sync()
	}
}
