package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for scripting integration.
// These codes allow scripts to distinguish between different failure modes.
const (
	// ExitSuccess indicates all operations completed successfully.
	ExitSuccess = 0

	// ExitVerdictFailure indicates at least one package verdict matched the
	// --fail-on policy (for example an incompatible package in CI).
	ExitVerdictFailure = 1

	// ExitFailure indicates a critical error occurred (unreadable input, write failure).
	ExitFailure = 2

	// ExitConfigError indicates a configuration or validation error.
	// The command could not proceed due to invalid config, flags, or target version.
	ExitConfigError = 3
)

// ExitError represents a command termination with a specific exit code.
//
// Fields:
//   - Code: Exit code (use constants ExitSuccess, ExitVerdictFailure, ExitFailure, ExitConfigError)
//   - Message: Human-readable error message
//   - Err: Underlying error that caused this exit, may be nil
//
// Example:
//
//	return &ExitError{
//	    Code:    ExitConfigError,
//	    Message: "failed to load config",
//	    Err:     err,
//	}
type ExitError struct {
	// Code is the exit code for the command.
	Code int

	// Message is a human-readable description of why the command failed.
	Message string

	// Err is the underlying error that caused this exit.
	// May be nil if no underlying error exists.
	Err error
}

// Error implements the error interface.
//
// Returns the Message field if set, otherwise returns the underlying error's
// message, or a default message with the exit code.
//
// Returns:
//   - string: The error message
func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and underlying error.
//
// Parameters:
//   - code: Exit code
//   - err: Underlying error, may be nil
//
// Returns:
//   - *ExitError: New exit error
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// NewExitErrorf creates an ExitError with the given code and formatted message.
//
// Parameters:
//   - code: Exit code
//   - format: Printf-style format string
//   - args: Format arguments
//
// Returns:
//   - *ExitError: New exit error with formatted message
func NewExitErrorf(code int, format string, args ...interface{}) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// GetExitCode extracts the exit code from an error.
//
// If err is nil, returns ExitSuccess.
// If err is an ExitError, returns its code.
// If err is an InvalidTargetError, returns ExitConfigError.
// If err is a VerdictFailureError, returns ExitVerdictFailure.
// Otherwise returns ExitFailure.
//
// Parameters:
//   - err: The error to extract code from
//
// Returns:
//   - int: Exit code
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var targetErr *InvalidTargetError
	if errors.As(err, &targetErr) {
		return ExitConfigError
	}

	var verdictErr *VerdictFailureError
	if errors.As(err, &verdictErr) {
		return ExitVerdictFailure
	}

	return ExitFailure
}

// IsExitError checks if err is an ExitError and returns it.
//
// Returns:
//   - *ExitError: The ExitError if err is one, nil otherwise
//   - bool: true if err is an ExitError
func IsExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}

// InvalidTargetError reports a target Python version that cannot be evaluated.
//
// It is fatal: nothing can be evaluated without a valid target, so commands
// return it before producing any output.
type InvalidTargetError struct {
	// Input is the raw user input.
	Input string

	// Reason explains what is wrong with it.
	Reason string
}

// Error implements the error interface.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target python version %q: %s", e.Input, e.Reason)
}

// IsInvalidTarget checks if err is an InvalidTargetError and returns it.
func IsInvalidTarget(err error) (*InvalidTargetError, bool) {
	var te *InvalidTargetError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// RequirementLineError describes a requirements line that did not yield a
// registry package name. It is never returned to callers of the parser; it
// is logged and the line is skipped.
type RequirementLineError struct {
	// Line is the 1-based line number, or 0 when unknown.
	Line int

	// Text is the raw line content.
	Text string

	// Reason is a short machine-friendly reason ("comment", "vcs reference", ...).
	Reason string
}

// Error implements the error interface.
func (e *RequirementLineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("requirements line %d skipped (%s): %s", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("requirement skipped (%s): %s", e.Reason, e.Text)
}

// MetadataError reports metadata that could not be obtained or parsed for a
// single package. The package verdict degrades to unknown; other packages
// are unaffected.
type MetadataError struct {
	// Package is the affected package name.
	Package string

	// Origin is where the metadata was being read from ("pypi", "installed").
	Origin string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *MetadataError) Error() string {
	return fmt.Sprintf("%s: %s metadata unavailable: %v", e.Package, e.Origin, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *MetadataError) Unwrap() error {
	return e.Err
}

// IsMetadataError checks if err is a MetadataError and returns it.
func IsMetadataError(err error) (*MetadataError, bool) {
	var me *MetadataError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// VerdictFailureError indicates that one or more verdicts matched the
// configured --fail-on statuses.
//
// Fields:
//   - Statuses: The statuses that trigger failure
//   - Packages: Names of packages whose verdict matched
type VerdictFailureError struct {
	Statuses []string
	Packages []string
}

// Error implements the error interface.
func (e *VerdictFailureError) Error() string {
	return fmt.Sprintf("%d package(s) matched --fail-on %s: %s",
		len(e.Packages), strings.Join(e.Statuses, ","), strings.Join(e.Packages, ", "))
}

// IsVerdictFailure checks if err is a VerdictFailureError and returns it.
func IsVerdictFailure(err error) (*VerdictFailureError, bool) {
	var vf *VerdictFailureError
	if errors.As(err, &vf) {
		return vf, true
	}
	return nil, false
}
