package compat

// Metadata is the evidence available for one package, mapped from whatever
// the provider returned. A nil Specifier or Classifiers means the provider
// had no such field.
type Metadata struct {
	Specifier   *string
	Classifiers []string

	// Version is for display only and never evaluated.
	Version string

	// Origin names where the evidence came from ("pypi", "installed").
	Origin string
}

// NewMetadata builds a Metadata value that does not alias the caller's slice.
func NewMetadata(version string, spec *string, classifiers []string) Metadata {
	md := Metadata{Version: version}
	if spec != nil {
		s := *spec
		md.Specifier = &s
	}
	if classifiers != nil {
		md.Classifiers = append([]string{}, classifiers...)
	}
	return md
}

// SpecifierText returns the specifier or "" when absent.
func (m Metadata) SpecifierText() string {
	if m.Specifier == nil {
		return ""
	}
	return *m.Specifier
}

// HasSpecifier reports whether a non-blank specifier was supplied.
func (m Metadata) HasSpecifier() bool {
	return m.Specifier != nil && trimmed(*m.Specifier) != ""
}

// Merge fills absent fields of m from fallback. Fields m already carries win.
func (m Metadata) Merge(fallback Metadata) Metadata {
	out := m
	if !m.HasSpecifier() && fallback.HasSpecifier() {
		s := *fallback.Specifier
		out.Specifier = &s
	}
	if len(m.Classifiers) == 0 && len(fallback.Classifiers) > 0 {
		out.Classifiers = append([]string{}, fallback.Classifiers...)
	}
	if out.Version == "" {
		out.Version = fallback.Version
	}
	if out.Origin == "" {
		out.Origin = fallback.Origin
	}
	return out
}
