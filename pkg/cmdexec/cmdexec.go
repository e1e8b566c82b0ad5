// Package cmdexec runs external programs (the Python interpreter) with a
// timeout and returns their standard output.
package cmdexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
	"github.com/ajxudir/pyupgradecheck/pkg/warnings"
)

// ExecuteFunc is the function signature for program execution.
//
// Parameters:
//   - ctx: Context for cancellation
//   - timeout: Maximum run time (0 for none)
//   - name: Program to run, resolved through PATH
//   - args: Program arguments, passed without a shell
//
// Returns:
//   - []byte: Standard output
//   - error: Start failure, non-zero exit (with stderr text), or timeout
type ExecuteFunc func(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error)

// waitDelay bounds how long Run waits for output pipes after the process
// group was killed.
const waitDelay = 500 * time.Millisecond

// Execute is the default execution function.
// It can be replaced with a mock implementation for testing.
var Execute ExecuteFunc = run

// run starts name in its own process group so a timeout also kills any
// children it spawned.
func run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("empty command")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	setProcGroup(cmd)
	cmd.Cancel = func() error {
		if err := killProcGroup(cmd); err != nil {
			warnings.Warnf("Warning: failed to kill process group: %v\n", err)
			return err
		}
		return nil
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	verbose.Printf("Running %s\n", name)

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded && timeout > 0 {
			return nil, fmt.Errorf("%s timed out after %s: %w", name, timeout, err)
		}

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}
