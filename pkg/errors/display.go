package errors

import (
	"fmt"
	"io"
)

// PrintErrorWithHints prints errors with actionable hints to the writer.
//
// This is the single implementation for error display across all commands.
//
// Parameters:
//   - w: Writer to output to (typically os.Stderr)
//   - errs: Slice of errors to display
//   - verbose: If true, metadata errors include their origin
//
// Output format:
//
//	Error: <error message>
//	  💡 <actionable hint if available>
func PrintErrorWithHints(w io.Writer, errs []error, verbose bool) {
	for _, err := range errs {
		printSingleError(w, err, verbose)
	}
}

// printSingleError prints a single error with appropriate formatting.
func printSingleError(w io.Writer, err error, verbose bool) {
	if err == nil {
		return
	}

	if vf, ok := IsVerdictFailure(err); ok {
		_, _ = fmt.Fprintf(w, "Failed: %s\n", vf.Error())
		return
	}

	if me, ok := IsMetadataError(err); ok && !verbose {
		_, _ = fmt.Fprintf(w, "Warning: %s: metadata unavailable\n", me.Package)
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %s\n", EnhanceErrorWithHint(err))
}
