package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Release describes one release served by a fake registry.
type Release struct {
	Version string

	// RequiresPython is served as JSON null when nil.
	RequiresPython *string

	Classifiers []string
}

// Project is a fake registry project. Releases[0] is the latest.
type Project struct {
	Name     string
	Releases []Release
}

// Registry is an httptest server speaking the subset of the PyPI JSON API
// that the client uses.
type Registry struct {
	*httptest.Server

	mu       sync.Mutex
	projects map[string]Project
	failing  map[string]int
	requests []string
}

// NewRegistry starts a fake registry and closes it when the test ends.
func NewRegistry(t *testing.T, projects ...Project) *Registry {
	t.Helper()

	reg := &Registry{
		projects: make(map[string]Project, len(projects)),
		failing:  make(map[string]int),
	}
	for _, p := range projects {
		reg.projects[strings.ToLower(p.Name)] = p
	}
	reg.Server = httptest.NewServer(http.HandlerFunc(reg.serve))
	t.Cleanup(reg.Close)
	return reg
}

// Fail makes every request for name answer with status.
func (r *Registry) Fail(name string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failing[strings.ToLower(name)] = status
}

// Requests returns the request paths served so far.
func (r *Registry) Requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.requests...)
}

// serve handles /pypi/<name>/json and /pypi/<name>/<version>/json.
func (r *Registry) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.requests = append(r.requests, req.URL.Path)
	r.mu.Unlock()

	parts := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
	if len(parts) < 3 || parts[0] != "pypi" || parts[len(parts)-1] != "json" || len(parts) > 4 {
		http.NotFound(w, req)
		return
	}
	name := strings.ToLower(parts[1])

	r.mu.Lock()
	status, failing := r.failing[name]
	project, ok := r.projects[name]
	r.mu.Unlock()

	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok || len(project.Releases) == 0 {
		http.NotFound(w, req)
		return
	}

	release := project.Releases[0]
	if len(parts) == 4 {
		found := false
		for _, rel := range project.Releases {
			if rel.Version == parts[2] {
				release, found = rel, true
				break
			}
		}
		if !found {
			http.NotFound(w, req)
			return
		}
	}

	classifiers := release.Classifiers
	if classifiers == nil {
		classifiers = []string{}
	}
	doc := map[string]any{
		"info": map[string]any{
			"name":            project.Name,
			"version":         release.Version,
			"requires_python": release.RequiresPython,
			"classifiers":     classifiers,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

// Ptr returns a pointer to s, for Release.RequiresPython literals.
func Ptr(s string) *string {
	return &s
}
