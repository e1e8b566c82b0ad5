//go:build windows

package cmdexec

import (
	"os/exec"
)

// setProcGroup is a no-op on Windows.
//
// exec.CommandContext terminates the process on cancellation.
func setProcGroup(_ *exec.Cmd) {}

// killProcGroup kills the process on Windows.
//
// Parameters:
//   - cmd: The command whose process should be killed
//
// Returns:
//   - error: Error if the kill operation fails, nil if successful or process is nil
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
