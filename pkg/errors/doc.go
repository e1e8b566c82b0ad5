// Package errors provides unified error types and display for pyupgradecheck.
//
// This package consolidates all error handling into a single location:
//   - ExitError: Command exit with specific exit code
//   - InvalidTargetError: The target Python version could not be parsed (fatal)
//   - RequirementLineError: A requirements line was not a registry package (recovered)
//   - MetadataError: Package metadata was missing or unreadable (recovered)
//   - VerdictFailureError: Verdicts matched the --fail-on policy
//
// Error Display:
//
// The package provides consistent error formatting with actionable hints:
//
//	errors.PrintErrorWithHints(os.Stderr, errs, verbose)
//
// Exit Codes:
//
// Standard exit codes are defined for scripting integration:
//   - ExitSuccess (0): All packages evaluated, no --fail-on match
//   - ExitVerdictFailure (1): At least one verdict matched --fail-on
//   - ExitFailure (2): I/O or unexpected error
//   - ExitConfigError (3): Configuration, flag, or target-version error
package errors
