package cmdexec

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
}

// TestRun tests program execution.
//
// It verifies:
//   - stdout is returned on success
//   - stderr text is attached to a non-zero exit
//   - a timeout kills the program and is reported
func TestRun(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()

	out, err := Execute(ctx, 0, "sh", "-c", "printf hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	_, err = Execute(ctx, 0, "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	start := time.Now()
	_, err = Execute(ctx, 100*time.Millisecond, "sh", "-c", "sleep 5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 4*time.Second)
}

// TestRunTimeoutKillsChildren tests that a timeout is enforced when the
// program forks a child that keeps stdout open.
//
// It verifies:
//   - The call returns a timeout error
//   - It does not wait for the child to exit
func TestRunTimeoutKillsChildren(t *testing.T) {
	skipOnWindows(t)

	start := time.Now()
	_, err := Execute(context.Background(), 100*time.Millisecond, "sh", "-c", "sleep 5; echo done")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunErrors(t *testing.T) {
	_, err := Execute(context.Background(), 0, " ")
	assert.EqualError(t, err, "empty command")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Execute(ctx, 0, "sh")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Execute(context.Background(), 0, "definitely-not-a-real-program-xyz")
	assert.Error(t, err)
}
