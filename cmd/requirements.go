package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pyupgradecheck/pkg/errors"
	"github.com/ajxudir/pyupgradecheck/pkg/output"
	"github.com/ajxudir/pyupgradecheck/pkg/requirements"
)

var requirementsOutputFlag string

var requirementsCmd = &cobra.Command{
	Use:   "requirements <file>",
	Short: "Print the package names a requirements file resolves to",
	Long: `Print the canonical package set read from a requirements file: one name per
line, in first-occurrence order, duplicates removed. Lines that do not name a
registry package (options, editable installs, URLs, VCS references) are
skipped; structured output lists them with the reason.`,
	Args: cobra.ExactArgs(1),
	RunE: runRequirements,
}

func init() {
	requirementsCmd.Flags().StringVarP(&requirementsOutputFlag, "output", "o", "", "Output format: "+output.FormatNames())
}

func runRequirements(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(requirementsOutputFlag)
	if err != nil {
		return errors.NewExitError(errors.ExitConfigError, err)
	}

	parsed, err := requirements.ParseFileDetailed(args[0])
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	result := output.NewRequirementsResult(args[0], parsed)
	if err := output.WriteRequirementsResult(cmd.OutOrStdout(), format, result); err != nil {
		return errors.NewExitError(errors.ExitFailure, fmt.Errorf("failed to write output: %w", err))
	}
	return nil
}
