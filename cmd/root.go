// Package cmd implements the pyupgradecheck command-line interface.
// It checks whether Python packages declare support for a target Python
// version and reports one verdict per package.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pyupgradecheck/pkg/errors"
	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
)

var exitFunc = os.Exit
var verboseFlag bool
var versionFlag bool
var configPathFlag string

var rootCmd = &cobra.Command{
	Use:   "pyupgradecheck",
	Short: "Check Python packages for compatibility with a target Python version",
	Long: `Check installed packages, a requirements file, or named packages against a
target Python version using requires_python and trove classifiers.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			verbose.Enable()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFlag {
			printVersionOutput(cmd.OutOrStdout())
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the root command and exits with the matching code:
//   - 0: Success
//   - 1: A verdict matched --fail-on
//   - 2: Failure (I/O, registry, environment)
//   - 3: Configuration or target version error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := errors.GetExitCode(err)
		errors.PrintErrorWithHints(os.Stderr, []error{err}, verbose.IsEnabled())
		verbose.Infof("Exit code %d: %v", code, err)
		exitFunc(code)
	}
}

// ExecuteTest runs the root command and returns its error instead of exiting.
func ExecuteTest() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVarP(&configPathFlag, "config", "c", "", "Config file path (default: ./.pyupgradecheck.yml)")

	// Local, not persistent: only "pyupgradecheck --version" prints the version.
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(requirementsCmd)
	rootCmd.AddCommand(checkCmd)
}
