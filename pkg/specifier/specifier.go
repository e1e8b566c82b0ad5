package specifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Operator is a version comparison operator.
type Operator string

// Supported operators.
const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpCompatible   Operator = "~="
	OpArbitrary    Operator = "==="
)

// operators is ordered so longer tokens are matched before their prefixes.
var operators = []Operator{OpArbitrary, OpCompatible, OpEqual, OpNotEqual, OpLessEqual, OpGreaterEqual, OpLess, OpGreater}

// versionPattern accepts a PEP 440 public version with optional epoch,
// pre/post/dev suffixes and local label. Group 1 is the epoch, group 2 the
// release, group 3 the wildcard marker.
var versionPattern = regexp.MustCompile(`(?i)^v?(?:(\d+)!)?(\d+(?:\.\d+)*)(\.\*)?((?:[-_.]?(?:a|b|c|rc|alpha|beta|pre|preview|post|rev|r|dev)[-_.]?\d*)*)(\+[a-z0-9]+(?:[-_.][a-z0-9]+)*)?$`)

// suffixMarker finds the first pre, post or dev marker in a version suffix.
var suffixMarker = regexp.MustCompile(`(?i)(preview|alpha|beta|post|pre|rev|dev|rc|a|b|c|r)`)

// Version identifies a runtime release line.
type Version struct {
	Major int
	Minor int
}

// String returns "MAJOR.MINOR".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Clause is a single operator/version pair.
type Clause struct {
	Op       Operator
	Release  []int
	Wildcard bool

	// PreRelease is set for a/b/rc/dev versions such as 3.13.0rc1, which sort
	// before the final release with the same number.
	PreRelease bool

	// Text is the version as written. It is the only field used for OpArbitrary.
	Text string
}

// String renders the clause in normalized form.
func (c Clause) String() string {
	return string(c.Op) + c.Text
}

// Set is an ordered conjunction of clauses.
type Set struct {
	clauses []Clause
}

// Empty reports whether the set states no constraint.
func (s Set) Empty() bool {
	return len(s.clauses) == 0
}

// String renders the set as comma-separated clauses.
func (s Set) String() string {
	parts := make([]string, len(s.clauses))
	for i, c := range s.clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// ParseError describes a clause that could not be parsed.
type ParseError struct {
	Input  string
	Clause string
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Clause == "" {
		return fmt.Sprintf("invalid specifier %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid specifier %q: clause %q: %s", e.Input, e.Clause, e.Reason)
}

// Parse parses a comma-separated specifier string.
//
// An empty or whitespace-only string yields an empty Set and no error.
//
// Parameters:
//   - s: Specifier text such as ">=3.7,!=3.8.*"
//
// Returns:
//   - Set: Parsed clauses in input order
//   - error: *ParseError when any clause is malformed
func Parse(s string) (Set, error) {
	if strings.TrimSpace(s) == "" {
		return Set{}, nil
	}

	parts := strings.Split(s, ",")
	clauses := make([]Clause, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return Set{}, &ParseError{Input: s, Reason: "empty clause"}
		}
		c, reason := parseClause(part)
		if reason != "" {
			return Set{}, &ParseError{Input: s, Clause: part, Reason: reason}
		}
		clauses = append(clauses, c)
	}

	return Set{clauses: clauses}, nil
}

// parseClause returns the clause or a non-empty failure reason.
func parseClause(text string) (Clause, string) {
	var op Operator
	for _, candidate := range operators {
		if strings.HasPrefix(text, string(candidate)) {
			op = candidate
			break
		}
	}
	if op == "" {
		return Clause{}, "missing operator"
	}

	ver := strings.TrimSpace(text[len(op):])
	if ver == "" {
		return Clause{}, "missing version"
	}

	if op == OpArbitrary {
		if strings.ContainsAny(ver, " \t") {
			return Clause{}, "whitespace in version"
		}
		return Clause{Op: op, Text: ver}, ""
	}

	m := versionPattern.FindStringSubmatch(ver)
	if m == nil {
		return Clause{}, "malformed version"
	}
	if m[1] != "" && m[1] != "0" {
		return Clause{}, "epochs other than 0 are not supported"
	}

	wildcard := m[3] != ""
	if wildcard {
		if op != OpEqual && op != OpNotEqual {
			return Clause{}, "wildcard only allowed with == and !="
		}
		if m[4] != "" || m[5] != "" {
			return Clause{}, "wildcard cannot follow a pre, post, dev or local suffix"
		}
	}
	if m[5] != "" && op != OpEqual && op != OpNotEqual {
		return Clause{}, "local version label only allowed with == and !="
	}

	segments := strings.Split(m[2], ".")
	release := make([]int, len(segments))
	for i, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return Clause{}, "release segment out of range"
		}
		release[i] = n
	}

	if op == OpCompatible && len(release) < 2 {
		return Clause{}, "~= requires at least two release segments"
	}

	return Clause{Op: op, Release: release, Wildcard: wildcard, PreRelease: isPreRelease(m[4]), Text: ver}, ""
}

// isPreRelease reports whether a version suffix makes the version sort
// before its release number. Post releases sort after it.
func isPreRelease(suffix string) bool {
	marker := strings.ToLower(suffixMarker.FindString(suffix))
	switch marker {
	case "", "post", "rev", "r":
		return false
	}
	return true
}

// Contains reports whether every clause is satisfied by v.
// An empty set contains every version; callers decide what "no constraint" means.
func (s Set) Contains(v Version) bool {
	for _, c := range s.clauses {
		if !c.Matches(v) {
			return false
		}
	}
	return true
}

// Matches reports whether the clause is satisfied by v.
func (c Clause) Matches(v Version) bool {
	switch c.Op {
	case OpArbitrary:
		return c.Text == v.String()
	case OpCompatible:
		n := len(c.Release)
		lower := Clause{Op: OpGreaterEqual, Release: c.Release}
		prefix := Clause{Op: OpEqual, Release: c.Release[:n-1], Wildcard: true}
		return lower.Matches(v) && prefix.Matches(v)
	}

	if c.Wildcard {
		return c.matchPrefix(v)
	}
	if c.PreRelease && c.Op == OpEqual {
		return false
	}
	if c.PreRelease && c.opensSeries() && c.seriesCompare(v) == 0 {
		// every final release of the series lies above the clause version
		switch c.Op {
		case OpGreater, OpGreaterEqual, OpNotEqual:
			return true
		}
		return false
	}

	switch len(c.Release) {
	case 1:
		return apply(c.Op, semver.Compare(canonicalMajor(v.Major), canonicalMajor(c.Release[0])))
	case 2:
		return apply(c.Op, compareSeries(v, c.Release))
	default:
		return c.matchSeries(v)
	}
}

// opensSeries reports whether the release segments past major.minor are all
// zero, so the clause version is the first one of its series.
func (c Clause) opensSeries() bool {
	if len(c.Release) < 3 {
		return true
	}
	for _, n := range c.Release[2:] {
		if n != 0 {
			return false
		}
	}
	return true
}

// seriesCompare compares v with the clause at the precision the clause is
// evaluated at: major for major-only clauses, major.minor otherwise.
func (c Clause) seriesCompare(v Version) int {
	if len(c.Release) == 1 {
		return semver.Compare(canonicalMajor(v.Major), canonicalMajor(c.Release[0]))
	}
	return compareSeries(v, c.Release)
}

// matchPrefix evaluates ==/!= with a trailing wildcard.
func (c Clause) matchPrefix(v Version) bool {
	var inPrefix bool
	switch len(c.Release) {
	case 1:
		inPrefix = v.Major == c.Release[0]
	default:
		inPrefix = compareSeries(v, c.Release) == 0
		if len(c.Release) > 2 && c.Op == OpNotEqual {
			// some other patch of the series always falls outside a deeper prefix
			return true
		}
	}
	if c.Op == OpNotEqual {
		return !inPrefix
	}
	return inPrefix
}

// matchSeries evaluates a clause with three or more release segments
// against the whole minor series of v.
func (c Clause) matchSeries(v Version) bool {
	cmp := compareSeries(v, c.Release)
	tailNonZero := false
	for _, n := range c.Release[2:] {
		if n != 0 {
			tailNonZero = true
			break
		}
	}

	switch c.Op {
	case OpGreaterEqual, OpGreater:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	case OpLess:
		return cmp < 0 || (cmp == 0 && tailNonZero)
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return true
	}
	return false
}

// compareSeries compares (v.Major, v.Minor) against the first two release segments.
func compareSeries(v Version, release []int) int {
	minor := 0
	if len(release) > 1 {
		minor = release[1]
	}
	return semver.Compare(canonical(v.Major, v.Minor), canonical(release[0], minor))
}

func apply(op Operator, cmp int) bool {
	switch op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	}
	return false
}

func canonical(major, minor int) string {
	return fmt.Sprintf("v%d.%d.0", major, minor)
}

func canonicalMajor(major int) string {
	return fmt.Sprintf("v%d", major)
}
