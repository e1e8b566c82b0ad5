package compat

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ajxudir/pyupgradecheck/pkg/errors"
	"github.com/ajxudir/pyupgradecheck/pkg/specifier"
)

var targetPattern = regexp.MustCompile(`^v?\d+\.\d+(\.\d+)?$`)

// MinimumMajor is the lowest supported target major version.
const MinimumMajor = 3

// Target is the Python release line packages are checked against.
type Target struct {
	Major int
	Minor int
}

// ParseTarget parses a target such as "3.13", "3.13.1" or "v3.12".
// A patch segment is accepted and discarded.
//
// Parameters:
//   - input: User-supplied version text
//
// Returns:
//   - Target: Parsed major and minor
//   - error: *errors.InvalidTargetError when the input is not usable
func ParseTarget(input string) (Target, error) {
	text := strings.TrimSpace(input)
	if !targetPattern.MatchString(text) {
		return Target{}, &errors.InvalidTargetError{Input: input, Reason: "expected MAJOR.MINOR such as 3.13"}
	}

	v, err := semver.NewVersion(text)
	if err != nil {
		return Target{}, &errors.InvalidTargetError{Input: input, Reason: err.Error()}
	}
	if v.Major() > math.MaxInt32 || v.Minor() > math.MaxInt32 {
		return Target{}, &errors.InvalidTargetError{Input: input, Reason: "version number out of range"}
	}
	if v.Major() < MinimumMajor {
		return Target{}, &errors.InvalidTargetError{
			Input:  input,
			Reason: fmt.Sprintf("major version must be >= %d", MinimumMajor),
		}
	}

	return Target{Major: int(v.Major()), Minor: int(v.Minor())}, nil
}

// MustParseTarget is like ParseTarget but panics on error. Intended for tests
// and constant inputs.
func MustParseTarget(input string) Target {
	t, err := ParseTarget(input)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns "MAJOR.MINOR".
func (t Target) String() string {
	return t.Version().String()
}

// Version converts the target for specifier evaluation.
func (t Target) Version() specifier.Version {
	return specifier.Version{Major: t.Major, Minor: t.Minor}
}
