package compat

import (
	"github.com/ajxudir/pyupgradecheck/pkg/constants"
)

// Status is the closed set of verdicts: Supported, Incompatible or Unknown.
// The unexported method keeps other packages from adding variants, so a
// type switch over the three concrete types is exhaustive.
type Status interface {
	String() string
	isStatus()
}

// SupportedStatus means the package declares support for the target.
type SupportedStatus struct{}

// IncompatibleStatus means the specifier excludes the target.
type IncompatibleStatus struct{}

// UnknownStatus means the evidence is missing, malformed or inconclusive.
type UnknownStatus struct{}

func (SupportedStatus) String() string    { return constants.StatusSupported }
func (IncompatibleStatus) String() string { return constants.StatusIncompatible }
func (UnknownStatus) String() string      { return constants.StatusUnknown }

func (SupportedStatus) isStatus()    {}
func (IncompatibleStatus) isStatus() {}
func (UnknownStatus) isStatus()      {}

// Verdict values.
var (
	Supported    Status = SupportedStatus{}
	Incompatible Status = IncompatibleStatus{}
	Unknown      Status = UnknownStatus{}
)

// ParseStatus maps a wire value back to a Status.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case constants.StatusSupported:
		return Supported, true
	case constants.StatusIncompatible:
		return Incompatible, true
	case constants.StatusUnknown:
		return Unknown, true
	}
	return nil, false
}

// Evidence records what produced a verdict.
type Evidence struct {
	// Source is one of constants.SourceRegistry, SourceClassifier, SourceStrict, SourceNone.
	Source string

	// Specifier is the requires_python text that was evaluated, if any.
	Specifier string

	// Classifier is the matching classifier, if any.
	Classifier string

	// Detail is a human-readable description.
	Detail string
}

// Result is the verdict for one package. It is created once and never modified.
type Result struct {
	Name     string
	Version  string
	Status   Status
	Evidence Evidence
}

// String renders the canonical text line "<name> <version>: <verdict> (<evidence>)".
func (r Result) String() string {
	return r.Name + " " + r.Version + ": " + r.Status.String() + " (" + r.Evidence.Detail + ")"
}
