package filtering

import "github.com/ajxudir/pyupgradecheck/pkg/environment"

// Filter matches package names against a list of patterns.
// The zero value and a nil *Filter match nothing.
type Filter struct {
	matchers []Matcher
}

// NewFilter parses every pattern.
//
// Parameters:
//   - patterns: entries accepted by ParsePattern
//
// Returns:
//   - *Filter: the filter
//   - error: the first invalid pattern
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{matchers: make([]Matcher, 0, len(patterns))}
	for _, p := range patterns {
		m, err := ParsePattern(p)
		if err != nil {
			return nil, err
		}
		f.matchers = append(f.matchers, m)
	}
	return f, nil
}

// Match reports whether name matches any pattern.
func (f *Filter) Match(name string) bool {
	if f.Empty() {
		return false
	}
	normalized := environment.NormalizeName(name)
	for _, m := range f.matchers {
		if m.Match(normalized) {
			return true
		}
	}
	return false
}

// Empty reports whether the filter has no patterns.
func (f *Filter) Empty() bool {
	return f == nil || len(f.matchers) == 0
}

// Patterns returns the patterns in their display form.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.matchers))
	for i, m := range f.matchers {
		out[i] = m.String()
	}
	return out
}
