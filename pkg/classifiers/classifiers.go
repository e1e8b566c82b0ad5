// Package classifiers extracts Python version evidence from trove classifiers.
//
// Only classifiers of the form "Programming Language :: Python :: 3" or
// "Programming Language :: Python :: 3.12" carry version evidence. Others,
// including "Python :: 3 :: Only" and "Python :: Implementation :: CPython",
// are ignored.
package classifiers

import (
	"strconv"
	"strings"

	"github.com/ajxudir/pyupgradecheck/pkg/constants"
	"github.com/ajxudir/pyupgradecheck/pkg/specifier"
)

// Entry is one version-bearing classifier.
type Entry struct {
	// Text is the full classifier as published.
	Text string

	Major    int
	Minor    int
	HasMinor bool
}

// Version returns the tail as written ("3" or "3.12").
func (e Entry) Version() string {
	if e.HasMinor {
		return strconv.Itoa(e.Major) + "." + strconv.Itoa(e.Minor)
	}
	return strconv.Itoa(e.Major)
}

// Set is the version-bearing subset of a package's classifiers in input order.
type Set struct {
	entries []Entry
}

// Parse keeps the classifiers that name a Python version. Duplicates are dropped.
//
// Parameters:
//   - list: All classifiers of a package, may be nil
//
// Returns:
//   - Set: Version-bearing classifiers
func Parse(list []string) Set {
	var entries []Entry
	seen := make(map[string]bool)

	for _, raw := range list {
		e, ok := parseEntry(raw)
		if !ok || seen[e.Version()] {
			continue
		}
		seen[e.Version()] = true
		entries = append(entries, e)
	}

	return Set{entries: entries}
}

func parseEntry(raw string) (Entry, bool) {
	text := strings.TrimSpace(raw)
	rest, ok := strings.CutPrefix(text, constants.ClassifierPrefix)
	if !ok {
		return Entry{}, false
	}
	tail := strings.TrimSpace(rest)
	if tail == "" {
		return Entry{}, false
	}

	majorText, minorText, hasMinor := strings.Cut(tail, ".")
	major, err := strconv.Atoi(majorText)
	if err != nil || major < 0 {
		return Entry{}, false
	}

	e := Entry{Text: text, Major: major}
	if hasMinor {
		minor, err := strconv.Atoi(minorText)
		if err != nil || minor < 0 {
			return Entry{}, false
		}
		e.Minor = minor
		e.HasMinor = true
	}
	return e, true
}

// Empty reports whether no version-bearing classifier was found.
func (s Set) Empty() bool {
	return len(s.entries) == 0
}

// Entries returns a copy of the entries.
func (s Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Versions returns the version tails, e.g. ["3", "3.11", "3.12"].
func (s Set) Versions() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Version()
	}
	return out
}

// Match finds a classifier naming the target. An exact major.minor entry
// is preferred over a bare major entry.
//
// Parameters:
//   - target: Runtime release line to look for
//
// Returns:
//   - Entry: The matching classifier
//   - bool: true when a match was found
func (s Set) Match(target specifier.Version) (Entry, bool) {
	var majorOnly *Entry
	for i := range s.entries {
		e := s.entries[i]
		if e.Major != target.Major {
			continue
		}
		if e.HasMinor && e.Minor == target.Minor {
			return e, true
		}
		if !e.HasMinor && majorOnly == nil {
			majorOnly = &s.entries[i]
		}
	}
	if majorOnly != nil {
		return *majorOnly, true
	}
	return Entry{}, false
}

// MentionsMajor reports whether any classifier names the given major version.
func (s Set) MentionsMajor(major int) bool {
	for _, e := range s.entries {
		if e.Major == major {
			return true
		}
	}
	return false
}
