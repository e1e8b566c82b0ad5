package output

import (
	"encoding/xml"

	"github.com/ajxudir/pyupgradecheck/pkg/compat"
	"github.com/ajxudir/pyupgradecheck/pkg/constants"
	"github.com/ajxudir/pyupgradecheck/pkg/requirements"
)

// CheckResult represents the output data for the check command.
//
// Fields:
//   - XMLName: XML root element name (used only for XML marshaling)
//   - Summary: Verdict counts for the run
//   - Packages: One entry per package in result order
//   - Warnings: Warning messages generated during the run (omitted if empty)
//   - Errors: Metadata lookup failures (omitted if empty)
type CheckResult struct {
	XMLName  xml.Name       `json:"-" xml:"checkResult"`
	Summary  CheckSummary   `json:"summary" xml:"summary"`
	Packages []CheckPackage `json:"packages" xml:"packages>package"`
	Warnings []string       `json:"warnings,omitempty" xml:"warnings>warning,omitempty"`
	Errors   []string       `json:"errors,omitempty" xml:"errors>error,omitempty"`
}

// CheckSummary holds verdict counts.
type CheckSummary struct {
	Target       string `json:"target" xml:"target"`
	Strict       bool   `json:"strict" xml:"strict"`
	Total        int    `json:"total" xml:"total"`
	Supported    int    `json:"supported" xml:"supported"`
	Incompatible int    `json:"incompatible" xml:"incompatible"`
	Unknown      int    `json:"unknown" xml:"unknown"`
}

// CheckPackage is one verdict.
//
// Fields:
//   - Name: Package name
//   - Version: Installed or evaluated release version
//   - Status: supported, incompatible or unknown
//   - Source: Evidence source (PyPI, classifier, strict, none)
//   - Specifier: requires_python text that was evaluated (omitted if empty)
//   - Classifier: Matching classifier (omitted if empty)
//   - Details: Human-readable evidence description
type CheckPackage struct {
	Name       string `json:"name" xml:"name"`
	Version    string `json:"version" xml:"version"`
	Status     string `json:"status" xml:"status"`
	Source     string `json:"source" xml:"source"`
	Specifier  string `json:"specifier,omitempty" xml:"specifier,omitempty"`
	Classifier string `json:"classifier,omitempty" xml:"classifier,omitempty"`
	Details    string `json:"details" xml:"details"`
}

// NewCheckResult converts verdicts into the output document.
//
// Parameters:
//   - target: The target version that was checked
//   - strict: Whether strict mode was used
//   - results: Verdicts in display order
//   - warnings: Collected warning lines
//   - errs: Per-package lookup failures
//
// Returns:
//   - *CheckResult: Output document with summary counts filled in
func NewCheckResult(target compat.Target, strict bool, results []compat.Result, warnings []string, errs []error) *CheckResult {
	res := &CheckResult{
		Summary:  CheckSummary{Target: target.String(), Strict: strict, Total: len(results)},
		Packages: make([]CheckPackage, 0, len(results)),
		Warnings: warnings,
	}

	for _, r := range results {
		status := r.Status.String()
		switch status {
		case constants.StatusSupported:
			res.Summary.Supported++
		case constants.StatusIncompatible:
			res.Summary.Incompatible++
		default:
			res.Summary.Unknown++
		}

		res.Packages = append(res.Packages, CheckPackage{
			Name:       r.Name,
			Version:    r.Version,
			Status:     status,
			Source:     r.Evidence.Source,
			Specifier:  r.Evidence.Specifier,
			Classifier: r.Evidence.Classifier,
			Details:    r.Evidence.Detail,
		})
	}

	for _, err := range errs {
		res.Errors = append(res.Errors, err.Error())
	}

	return res
}

// RequirementsResult represents the output data for the requirements command.
type RequirementsResult struct {
	XMLName  xml.Name      `json:"-" xml:"requirementsResult"`
	File     string        `json:"file" xml:"file"`
	Packages []string      `json:"packages" xml:"packages>package"`
	Skipped  []SkippedLine `json:"skipped,omitempty" xml:"skipped>line,omitempty"`
}

// SkippedLine is a requirements line that did not yield a package.
type SkippedLine struct {
	Line   int    `json:"line" xml:"number,attr"`
	Reason string `json:"reason" xml:"reason,attr"`
	Text   string `json:"text" xml:",chardata"`
}

// NewRequirementsResult converts a parse result into the output document.
func NewRequirementsResult(file string, parsed requirements.Result) *RequirementsResult {
	res := &RequirementsResult{File: file, Packages: parsed.Names}
	if res.Packages == nil {
		res.Packages = []string{}
	}
	for _, s := range parsed.Skipped {
		res.Skipped = append(res.Skipped, SkippedLine{Line: s.Line, Reason: s.Reason, Text: s.Text})
	}
	return res
}
