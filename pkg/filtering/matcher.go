package filtering

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/ajxudir/pyupgradecheck/pkg/environment"
)

// Matcher tests a package name against one pattern.
type Matcher interface {
	// Match reports whether name matches. name is normalized by the caller.
	Match(name string) bool

	// String returns the pattern as written.
	String() string
}

// ExactMatcher matches one normalized name.
type ExactMatcher struct {
	Name string
}

// Match implements Matcher.
func (m *ExactMatcher) Match(name string) bool {
	return name == m.Name
}

func (m *ExactMatcher) String() string {
	return m.Name
}

// GlobMatcher matches a path.Match pattern.
type GlobMatcher struct {
	Pattern string
}

// Match implements Matcher. A malformed pattern never matches; ParsePattern
// rejects those up front.
func (m *GlobMatcher) Match(name string) bool {
	ok, err := path.Match(m.Pattern, name)
	return err == nil && ok
}

func (m *GlobMatcher) String() string {
	return m.Pattern
}

// RegexMatcher matches a regular expression.
type RegexMatcher struct {
	Pattern string

	regex *regexp.Regexp
}

// Match implements Matcher.
func (m *RegexMatcher) Match(name string) bool {
	return m.regex != nil && m.regex.MatchString(name)
}

func (m *RegexMatcher) String() string {
	return "~" + m.Pattern
}

// ParsePattern turns one ignore entry into a Matcher.
//
// Parameters:
//   - pattern: exact name, glob containing *, ? or [, or ~regex
//
// Returns:
//   - Matcher: the matcher for pattern
//   - error: when pattern is empty or not a valid glob or regex
func ParsePattern(pattern string) (Matcher, error) {
	p := strings.TrimSpace(pattern)
	switch {
	case p == "" || p == "~":
		return nil, fmt.Errorf("empty package pattern")
	case strings.HasPrefix(p, "~"):
		expr := p[1:]
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid package regex %q: %w", expr, err)
		}
		return &RegexMatcher{Pattern: expr, regex: re}, nil
	case strings.ContainsAny(p, "*?["):
		glob := environment.NormalizeName(p)
		if _, err := path.Match(glob, ""); err != nil {
			return nil, fmt.Errorf("invalid package glob %q: %w", p, err)
		}
		return &GlobMatcher{Pattern: glob}, nil
	default:
		return &ExactMatcher{Name: environment.NormalizeName(p)}, nil
	}
}
