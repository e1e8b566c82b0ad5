package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getInfo(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	var doc struct {
		Info map[string]any `json:"info"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	return resp.StatusCode, doc.Info
}

// TestRegistry tests the fake registry.
//
// It verifies:
//   - The latest and a specific release are served
//   - A nil RequiresPython is served as null
//   - Unknown projects, releases, and paths are 404
//   - Fail overrides the response status
func TestRegistry(t *testing.T) {
	reg := NewRegistry(t, Project{
		Name: "Demo",
		Releases: []Release{
			{Version: "2.0", RequiresPython: Ptr(">=3.9"), Classifiers: []string{"Programming Language :: Python :: 3.12"}},
			{Version: "1.0"},
		},
	})

	status, info := getInfo(t, reg.URL+"/pypi/demo/json")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2.0", info["version"])
	assert.Equal(t, ">=3.9", info["requires_python"])

	status, info = getInfo(t, reg.URL+"/pypi/Demo/1.0/json")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1.0", info["version"])
	assert.Nil(t, info["requires_python"])
	assert.Equal(t, []any{}, info["classifiers"])

	for _, path := range []string{"/pypi/missing/json", "/pypi/demo/9.9/json", "/simple/demo/"} {
		status, _ = getInfo(t, reg.URL+path)
		assert.Equal(t, http.StatusNotFound, status, path)
	}

	reg.Fail("demo", http.StatusServiceUnavailable)
	status, _ = getInfo(t, reg.URL+"/pypi/demo/json")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	assert.Len(t, reg.Requests(), 6)
}

// TestWriteSitePackages tests the dist-info fixture writer.
//
// It verifies:
//   - One METADATA file per dist with the given fields
func TestWriteSitePackages(t *testing.T) {
	dir := WriteSitePackages(t, Dist{
		Name:           "my-pkg",
		Version:        "1.2",
		RequiresPython: ">=3.8",
		Classifiers:    []string{"Programming Language :: Python :: 3"},
	})

	data, err := os.ReadFile(filepath.Join(dir, "my_pkg-1.2.dist-info", "METADATA"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name: my-pkg\n")
	assert.Contains(t, string(data), "Requires-Python: >=3.8\n")
	assert.Contains(t, string(data), "Classifier: Programming Language :: Python :: 3\n")
}

// TestCapture tests stream capture.
//
// It verifies:
//   - Output written to stdout and stderr is returned
func TestCapture(t *testing.T) {
	out := CaptureStdout(t, func() { fmt.Print("to stdout") })
	assert.Equal(t, "to stdout", out)

	errOut := CaptureStderr(t, func() { fmt.Fprint(os.Stderr, "to stderr") })
	assert.Equal(t, "to stderr", errOut)
}
