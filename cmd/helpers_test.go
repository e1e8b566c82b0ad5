package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
)

// resetFlags restores every flag to its default. Cobra keeps flag state in
// package variables, so each test starts from a clean command tree.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		c.Flags().VisitAll(reset)
	}
	verbose.Disable()
}

// runCLI executes the root command with args in dir and returns what it
// wrote to its output and error streams.
func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()

	resetFlags()
	oldGetwd, oldDiscover := getwdFunc, discoverFunc
	getwdFunc = func() (string, error) { return dir, nil }
	discoverFunc = func(context.Context, string) ([]string, error) {
		return nil, errors.New("no interpreter in tests")
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		getwdFunc, discoverFunc = oldGetwd, oldDiscover
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags()
	})

	err := ExecuteTest()
	return stdout.String(), stderr.String(), err
}
