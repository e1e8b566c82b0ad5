// Package environment reads installed distributions from site-packages
// directories.
//
// Each *.dist-info/METADATA (or legacy *.egg-info/PKG-INFO) file is parsed
// as an RFC 822 header block to obtain the distribution name, installed
// version, Requires-Python and classifiers.
package environment

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ajxudir/pyupgradecheck/pkg/compat"
	"github.com/ajxudir/pyupgradecheck/pkg/constants"
	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
	"github.com/ajxudir/pyupgradecheck/pkg/warnings"
)

var separatorRun = regexp.MustCompile(`[-_.]+`)

// NormalizeName lower-cases a project name and collapses runs of "-", "_"
// and "." to a single "-", so "Typing_Extensions" and "typing-extensions"
// compare equal.
func NormalizeName(name string) string {
	return separatorRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Distribution is one installed project.
type Distribution struct {
	Name           string
	Version        string
	RequiresPython *string
	Classifiers    []string

	// Path is the metadata directory it was read from.
	Path string
}

// Metadata converts the distribution to evaluator input.
func (d Distribution) Metadata() compat.Metadata {
	md := compat.NewMetadata(d.Version, d.RequiresPython, d.Classifiers)
	md.Origin = constants.OriginInstalled
	return md
}

// Index looks distributions up by normalized name.
type Index map[string]Distribution

// NewIndex builds an index. Earlier entries win on duplicate names.
func NewIndex(dists []Distribution) Index {
	idx := make(Index, len(dists))
	for _, d := range dists {
		key := NormalizeName(d.Name)
		if _, ok := idx[key]; !ok {
			idx[key] = d
		}
	}
	return idx
}

// Lookup finds a distribution by any spelling of its name.
func (idx Index) Lookup(name string) (Distribution, bool) {
	d, ok := idx[NormalizeName(name)]
	return d, ok
}

// metadataFiles maps a metadata directory suffix to the file it holds.
var metadataFiles = map[string]string{
	".dist-info": "METADATA",
	".egg-info":  "PKG-INFO",
}

// Scan reads every distribution in dir.
//
// Unreadable metadata files are reported through warnings and skipped.
//
// Parameters:
//   - dir: A site-packages directory
//
// Returns:
//   - []Distribution: Installed distributions sorted by normalized name
//   - error: When dir itself cannot be read
func Scan(dir string) ([]Distribution, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read site-packages %s", dir)
	}

	var dists []Distribution
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		file, ok := metadataFileFor(entry.Name())
		if !ok {
			continue
		}

		metaDir := filepath.Join(dir, entry.Name())
		d, err := ReadMetadataFile(filepath.Join(metaDir, file))
		if err != nil {
			warnings.Warnf("%s Skipping %s: %v\n", constants.IconWarn, entry.Name(), err)
			continue
		}
		if d.Name == "" {
			warnings.Warnf("%s Skipping %s: metadata has no Name\n", constants.IconWarn, entry.Name())
			continue
		}
		d.Path = metaDir
		dists = append(dists, d)
	}

	sortDistributions(dists)
	verbose.Printf("Found %d distributions in %s\n", len(dists), dir)
	return dists, nil
}

// ScanAll scans several directories. When a project appears in more than
// one, the directory listed first wins, matching interpreter import order.
func ScanAll(dirs []string) ([]Distribution, error) {
	seen := make(map[string]bool)
	var all []Distribution

	for _, dir := range dirs {
		dists, err := Scan(dir)
		if err != nil {
			return nil, err
		}
		for _, d := range dists {
			key := NormalizeName(d.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, d)
		}
	}

	sortDistributions(all)
	return all, nil
}

func metadataFileFor(dirName string) (string, bool) {
	for suffix, file := range metadataFiles {
		if strings.HasSuffix(dirName, suffix) {
			return file, true
		}
	}
	return "", false
}

func sortDistributions(dists []Distribution) {
	sort.SliceStable(dists, func(i, j int) bool {
		return NormalizeName(dists[i].Name) < NormalizeName(dists[j].Name)
	})
}
