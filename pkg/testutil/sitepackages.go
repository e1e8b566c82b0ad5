package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Dist describes an installed distribution fixture.
type Dist struct {
	Name           string
	Version        string
	RequiresPython string
	Classifiers    []string
}

// WriteSitePackages creates a site-packages directory holding a
// <name>-<version>.dist-info/METADATA file per dist and returns its path.
func WriteSitePackages(t *testing.T, dists ...Dist) string {
	t.Helper()

	dir := t.TempDir()
	for _, d := range dists {
		var sb strings.Builder
		sb.WriteString("Metadata-Version: 2.1\n")
		fmt.Fprintf(&sb, "Name: %s\n", d.Name)
		fmt.Fprintf(&sb, "Version: %s\n", d.Version)
		if d.RequiresPython != "" {
			fmt.Fprintf(&sb, "Requires-Python: %s\n", d.RequiresPython)
		}
		for _, c := range d.Classifiers {
			fmt.Fprintf(&sb, "Classifier: %s\n", c)
		}
		sb.WriteString("\n")

		folder := filepath.Join(dir, fmt.Sprintf("%s-%s.dist-info", strings.ReplaceAll(d.Name, "-", "_"), d.Version))
		if err := os.MkdirAll(folder, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", folder, err)
		}
		if err := os.WriteFile(filepath.Join(folder, "METADATA"), []byte(sb.String()), 0o644); err != nil {
			t.Fatalf("failed to write METADATA: %v", err)
		}
	}
	return dir
}
