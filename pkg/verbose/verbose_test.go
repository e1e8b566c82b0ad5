package verbose

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// withBuffer routes verbose output into a buffer for the duration of the test.
func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetWriter(buf)
	t.Cleanup(func() {
		Disable()
		SetWriter(os.Stderr)
	})
	return buf
}

// TestEnableDisable tests the behavior of Enable and Disable functions.
//
// It verifies:
//   - Disable sets enabled state to false
//   - Enable sets enabled state to true
func TestEnableDisable(t *testing.T) {
	Disable()
	assert.False(t, IsEnabled())

	Enable()
	assert.True(t, IsEnabled())

	Disable()
	assert.False(t, IsEnabled())
}

// TestSetWriter tests that a nil writer is ignored.
func TestSetWriter(t *testing.T) {
	buf := withBuffer(t)

	Enable()
	Printf("test message")
	SetWriter(nil)
	Printf("another message")

	assert.Contains(t, buf.String(), "[DEBUG] test message")
	assert.Contains(t, buf.String(), "[DEBUG] another message")
}

// TestPrintf tests the behavior of Printf.
//
// It verifies:
//   - No output when verbose is disabled
//   - Format string and arguments are properly interpolated
func TestPrintf(t *testing.T) {
	buf := withBuffer(t)

	Disable()
	Printf("should not appear")
	assert.Empty(t, buf.String())

	Enable()
	Printf("test %s %d", "arg", 42)
	assert.Contains(t, buf.String(), "[DEBUG] test arg 42")
}

func TestInfoAndTrace(t *testing.T) {
	buf := withBuffer(t)
	Enable()

	Info("plain")
	Infof("formatted %d", 7)
	Tracef("clause %s", ">=3.8")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] plain\n")
	assert.Contains(t, out, "[DEBUG] formatted 7\n")
	assert.Contains(t, out, "        clause >=3.8\n")
}

// TestDomainHelpers tests the package-specific logging helpers.
//
// It verifies:
//   - ConfigLoaded distinguishes defaults from a file path
//   - RequirementSkipped includes line number and reason
//   - MetadataFetched renders an absent specifier as <none>
//   - VerdictReached includes status and detail
func TestDomainHelpers(t *testing.T) {
	buf := withBuffer(t)
	Enable()

	ConfigLoaded("")
	ConfigLoaded(".pyupgradecheck.yml")
	RequirementSkipped(3, "git+https://example.com/x.git", "vcs reference")
	MetadataFetched("requests", "pypi", "", []string{"3", "3.12"})
	VerdictReached("requests", "supported", "PyPI requires_python: >=3.8")

	out := buf.String()
	assert.Contains(t, out, "Config loaded: built-in defaults")
	assert.Contains(t, out, "Config loaded: .pyupgradecheck.yml")
	assert.Contains(t, out, "Requirement line 3 skipped (vcs reference): git+https://example.com/x.git")
	assert.Contains(t, out, "requires_python=<none>, classifiers=[3, 3.12]")
	assert.Contains(t, out, "Verdict for 'requests': supported (PyPI requires_python: >=3.8)")
}

func TestDomainHelpersDisabled(t *testing.T) {
	buf := withBuffer(t)
	Disable()

	ConfigLoaded("x")
	RequirementSkipped(1, "x", "y")
	MetadataFetched("a", "b", "c", nil)
	VerdictReached("a", "b", "c")

	assert.Empty(t, buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
