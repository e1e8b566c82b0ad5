package compat

import (
	"fmt"
	"strings"

	"github.com/ajxudir/pyupgradecheck/pkg/classifiers"
	"github.com/ajxudir/pyupgradecheck/pkg/constants"
	"github.com/ajxudir/pyupgradecheck/pkg/specifier"
)

const (
	detailNoMetadata = "no metadata found"
	detailPartial    = "partial metadata"
)

// Evaluate produces the verdict for one package.
//
// Parameters:
//   - name: Package name, copied into the result
//   - md: Evidence for the package
//   - target: Python release line to check
//   - strict: When true, supported requires specifier and classifiers to agree
//
// Returns:
//   - Result: The verdict; never an error, bad metadata degrades to Unknown
func Evaluate(name string, md Metadata, target Target, strict bool) Result {
	version := md.Version
	if version == "" {
		version = constants.PlaceholderVersion
	}

	status, ev := decide(md, target, strict)
	return Result{Name: name, Version: version, Status: status, Evidence: ev}
}

// specState is the outcome of evaluating the specifier alone.
type specState int

const (
	specAbsent specState = iota
	specInvalid
	specSatisfied
	specExcluded
)

func evalSpecifier(md Metadata, target Target) (specState, string) {
	if !md.HasSpecifier() {
		return specAbsent, ""
	}
	set, err := specifier.Parse(*md.Specifier)
	if err != nil {
		return specInvalid, err.Error()
	}
	if set.Contains(target.Version()) {
		return specSatisfied, ""
	}
	return specExcluded, ""
}

func decide(md Metadata, target Target, strict bool) (Status, Evidence) {
	spec := strings.TrimSpace(md.SpecifierText())
	state, parseErr := evalSpecifier(md, target)
	cls := classifiers.Parse(md.Classifiers)
	match, matched := cls.Match(target.Version())

	specDetail := "PyPI requires_python: " + spec
	invalidDetail := fmt.Sprintf("invalid requires_python %q: %s", spec, parseErr)

	if strict {
		return decideStrict(state, spec, specDetail, invalidDetail, cls, match, matched, target)
	}

	switch state {
	case specSatisfied:
		return Supported, Evidence{Source: constants.SourceRegistry, Specifier: spec, Detail: specDetail}
	case specExcluded:
		return Incompatible, Evidence{Source: constants.SourceRegistry, Specifier: spec, Detail: specDetail}
	case specInvalid:
		return Unknown, Evidence{Source: constants.SourceRegistry, Specifier: spec, Detail: invalidDetail}
	}

	if matched {
		return Supported, Evidence{Source: constants.SourceClassifier, Classifier: match.Text, Detail: "classifier: " + match.Text}
	}
	if !cls.Empty() {
		listed := "[" + strings.Join(texts(cls), ", ") + "]"
		if !cls.MentionsMajor(target.Major) {
			return Unknown, Evidence{
				Source: constants.SourceClassifier,
				Detail: fmt.Sprintf("classifiers do not mention Python %d: %s", target.Major, listed),
			}
		}
		return Unknown, Evidence{
			Source: constants.SourceClassifier,
			Detail: "classifiers found but no exact match: " + listed,
		}
	}
	return Unknown, Evidence{Source: constants.SourceNone, Detail: detailNoMetadata}
}

func decideStrict(
	state specState, spec, specDetail, invalidDetail string,
	cls classifiers.Set, match classifiers.Entry, matched bool, target Target,
) (Status, Evidence) {
	switch state {
	case specExcluded:
		return Incompatible, Evidence{Source: constants.SourceRegistry, Specifier: spec, Detail: specDetail}
	case specInvalid:
		return Unknown, Evidence{Source: constants.SourceStrict, Specifier: spec, Detail: detailPartial + ": " + invalidDetail}
	case specAbsent:
		if cls.Empty() {
			return Unknown, Evidence{Source: constants.SourceNone, Detail: detailNoMetadata}
		}
		ev := Evidence{Source: constants.SourceStrict, Detail: detailPartial + ": no requires_python"}
		if matched {
			ev.Classifier = match.Text
		}
		return Unknown, ev
	}

	// specifier satisfied
	if matched {
		return Supported, Evidence{
			Source:     constants.SourceStrict,
			Specifier:  spec,
			Classifier: match.Text,
			Detail:     specDetail + "; classifier: " + match.Text,
		}
	}
	if cls.Empty() {
		return Unknown, Evidence{Source: constants.SourceStrict, Specifier: spec, Detail: detailPartial + ": no python classifiers"}
	}
	return Unknown, Evidence{
		Source:    constants.SourceStrict,
		Specifier: spec,
		Detail:    fmt.Sprintf("%s: classifiers do not name %s", detailPartial, target),
	}
}

func texts(cls classifiers.Set) []string {
	entries := cls.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
