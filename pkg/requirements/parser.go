// Package requirements turns pip requirements files into a canonical,
// de-duplicated list of registry package names.
//
// Only the package name is extracted. Version clauses, extras and
// environment markers are dropped, include directives (-r, -c) are not
// followed, and lines that reference VCS checkouts, URLs or local paths
// are skipped because they cannot be looked up in the registry.
package requirements

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/ajxudir/pyupgradecheck/pkg/errors"
	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
)

// Skip reasons reported in RequirementLineError.Reason.
const (
	ReasonBlank    = "blank"
	ReasonComment  = "comment"
	ReasonOption   = "pip option"
	ReasonEditable = "editable install"
	ReasonVCS      = "vcs reference"
	ReasonURL      = "url reference"
	ReasonLocal    = "local path or archive"
	ReasonNoName   = "missing package name"
	ReasonBadName  = "invalid package name"
)

// maxLineBytes bounds a single logical line, continuations included.
const maxLineBytes = 1024 * 1024

var (
	vcsPattern  = regexp.MustCompile(`(?i)^[a-z]+\+[a-z]+://|\b(?:git|hg|svn|bzr)\+[a-z]+://`)
	namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*)$`)
)

// nameTerminators end the package name: version operators, extras,
// direct-reference and marker separators, and whitespace.
const nameTerminators = "=<>!~([@,; \t"

// urlPrefixes are non-VCS references that are not registry names.
var urlPrefixes = []string{"http://", "https://", "file:", "ftp://"}

// archiveSuffixes mark a distribution file rather than a project name.
var archiveSuffixes = []string{".whl", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".zip"}

// isLocalReference reports whether the first token of a line names a file
// or directory: a path (./pkg, dir/pkg, C:\pkg) or an archive (pkg-1.0.whl).
// A direct reference (name @ url) is judged by its name.
func isLocalReference(text string) bool {
	token := text
	if i := strings.IndexAny(token, " \t;@"); i >= 0 {
		token = token[:i]
	}
	if token == "." || token == ".." || strings.ContainsAny(token, "/\\") {
		return true
	}
	lower := strings.ToLower(token)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Result is the outcome of parsing a whole file.
type Result struct {
	// Names are lower-cased package names in first-occurrence order.
	Names []string

	// Skipped lists every non-blank line that did not yield a name.
	Skipped []*errors.RequirementLineError
}

// ParseLine extracts the package name from one requirements line.
//
// Parameters:
//   - line: Raw line text
//
// Returns:
//   - string: Lower-cased package name
//   - bool: false when the line should be skipped
func ParseLine(line string) (string, bool) {
	name, reason := parseLine(line)
	return name, reason == ""
}

// parseLine returns the name, or "" with a skip reason.
func parseLine(line string) (string, string) {
	text := stripComment(strings.TrimSpace(line))
	if text == "" {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return "", ReasonComment
		}
		return "", ReasonBlank
	}

	if strings.HasPrefix(text, "-") {
		if strings.HasPrefix(text, "-e") || strings.HasPrefix(text, "--editable") {
			return "", ReasonEditable
		}
		return "", ReasonOption
	}

	if vcsPattern.MatchString(text) {
		return "", ReasonVCS
	}
	lower := strings.ToLower(text)
	for _, p := range urlPrefixes {
		if strings.HasPrefix(lower, p) {
			return "", ReasonURL
		}
	}

	if isLocalReference(text) {
		return "", ReasonLocal
	}

	if i := strings.Index(text, ";"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}

	name := text
	if i := strings.IndexAny(text, nameTerminators); i >= 0 {
		name = text[:i]
	}
	if name == "" {
		return "", ReasonNoName
	}
	if !namePattern.MatchString(name) {
		return "", ReasonBadName
	}

	return strings.ToLower(name), ""
}

// stripComment removes a # comment that starts the line or follows
// whitespace. A # inside a token such as a URL fragment is kept.
func stripComment(s string) string {
	if strings.HasPrefix(s, "#") {
		return ""
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '#' && (s[i-1] == ' ' || s[i-1] == '\t') {
			return strings.TrimSpace(s[:i])
		}
	}
	return s
}

// Parse reads requirements from r and returns the package names.
// A reader whose every line is skipped yields an empty, non-nil slice.
//
// Parameters:
//   - r: Source of requirements text
//
// Returns:
//   - []string: Lower-cased names, de-duplicated, in first-occurrence order
//   - error: Read error from r
func Parse(r io.Reader) ([]string, error) {
	res, err := ParseDetailed(r)
	if err != nil {
		return nil, err
	}
	return res.Names, nil
}

// ParseDetailed is Parse plus the list of skipped lines.
func ParseDetailed(r io.Reader) (Result, error) {
	res := Result{Names: []string{}}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		pending   strings.Builder
		startLine int
		lineNo    int
	)

	flush := func() {
		logical := pending.String()
		pending.Reset()

		name, reason := parseLine(logical)
		if reason != "" {
			if reason == ReasonBlank {
				return
			}
			skip := &errors.RequirementLineError{Line: startLine, Text: strings.TrimSpace(logical), Reason: reason}
			res.Skipped = append(res.Skipped, skip)
			verbose.RequirementSkipped(skip.Line, skip.Text, skip.Reason)
			return
		}
		if seen[name] {
			return
		}
		seen[name] = true
		res.Names = append(res.Names, name)
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if pending.Len() == 0 {
			startLine = lineNo
		}

		trimmed := strings.TrimRight(line, " \t\r")
		if strings.HasSuffix(trimmed, `\`) && !strings.HasPrefix(strings.TrimSpace(trimmed), "#") {
			pending.WriteString(strings.TrimSuffix(trimmed, `\`))
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(line)
		flush()
	}
	if err := scanner.Err(); err != nil {
		return Result{}, err
	}
	if pending.Len() > 0 {
		flush()
	}

	return res, nil
}

// ParseFile opens path and parses it. A missing file is an error.
func ParseFile(path string) ([]string, error) {
	res, err := ParseFileDetailed(path)
	if err != nil {
		return nil, err
	}
	return res.Names, nil
}

// ParseFileDetailed opens path and calls ParseDetailed.
func ParseFileDetailed(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = f.Close() }()

	verbose.Printf("Reading requirements from %s\n", path)
	return ParseDetailed(f)
}
