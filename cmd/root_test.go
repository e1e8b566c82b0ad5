package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/pyupgradecheck/pkg/errors"
	"github.com/ajxudir/pyupgradecheck/pkg/testutil"
)

// TestRootCommand tests the root command.
//
// It verifies:
//   - Without arguments the help text is shown
//   - --version prints the version
//   - All subcommands are registered
func TestRootCommand(t *testing.T) {
	out, _, err := runCLI(t, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "pyupgradecheck")
	assert.Contains(t, out, "check")

	out, _, err = runCLI(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: "+Version)

	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"check", "requirements", "config", "version"})
}

// TestExecuteExitCodes tests that Execute maps errors to exit codes.
//
// It verifies:
//   - An unknown command exits with ExitFailure and prints an error
//   - An invalid target exits with ExitConfigError and prints a hint
func TestExecuteExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "unknown command", args: []string{"bogus"}, wantCode: errors.ExitFailure, wantErr: "unknown command"},
		{name: "invalid target", args: []string{"check", "2.7", "-p", "x", "--offline"}, wantCode: errors.ExitConfigError, wantErr: "invalid target python version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			oldExit := exitFunc
			code := -1
			exitFunc = func(c int) { code = c }
			rootCmd.SetArgs(tt.args)
			t.Cleanup(func() {
				exitFunc = oldExit
				rootCmd.SetArgs(nil)
				resetFlags()
			})

			stderr := testutil.CaptureStderr(t, Execute)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, "Error: ")
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}
