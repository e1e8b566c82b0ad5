package errors

import (
	"strings"
)

// ErrorHint provides actionable resolution hints for common errors.
//
// Fields:
//   - Pattern: Substring to match in error message (case-insensitive)
//   - Hint: Brief description of the issue
//   - Resolution: Command or action to resolve the issue
type ErrorHint struct {
	Pattern    string
	Hint       string
	Resolution string
}

// CommonErrorHints maps error patterns to actionable hints.
// These are used by EnhanceErrorWithHint to add context to errors.
var CommonErrorHints = []ErrorHint{
	{
		Pattern:    "invalid target python version",
		Hint:       "Target must be MAJOR.MINOR with major >= 3",
		Resolution: "Pass a version such as 3.12 or 3.13",
	},
	{
		Pattern:    "no such file or directory",
		Hint:       "Input file not found",
		Resolution: "Check the --requirements or --site-packages path",
	},
	{
		Pattern:    "site-packages",
		Hint:       "Could not read the installed environment",
		Resolution: "Point --site-packages at a directory containing *.dist-info folders, or pass --packages/--requirements",
	},
	{
		Pattern:    "config file too large",
		Hint:       "Configuration file exceeds the size limit",
		Resolution: "Split or trim .pyupgradecheck.yml",
	},
	{
		Pattern:    "unsupported output format",
		Hint:       "Unknown --output value",
		Resolution: "Use one of: text, table, json, json-array, csv, xml",
	},
}

// GetHint returns an actionable hint for an error if one is available.
//
// Parameters:
//   - err: The error to find a hint for
//
// Returns:
//   - string: The hint with resolution, or empty string if no hint found
func GetHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	for _, hint := range CommonErrorHints {
		if strings.Contains(errStr, strings.ToLower(hint.Pattern)) {
			return hint.Hint + ": " + hint.Resolution
		}
	}

	return ""
}

// EnhanceErrorWithHint adds actionable hints to an error message if a matching pattern is found.
//
// Parameters:
//   - err: The error to enhance
//
// Returns:
//   - string: Error message with hint appended if found, otherwise just the error message
func EnhanceErrorWithHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	if hint := GetHint(err); hint != "" {
		return errStr + "\n  \U0001F4A1 " + hint
	}

	return errStr
}
