package pypi

// ProjectResponse is the subset of the PyPI JSON API document that is read.
// Both /pypi/<name>/json and /pypi/<name>/<version>/json return this shape.
type ProjectResponse struct {
	Info ProjectInfo `json:"info"`
}

// ProjectInfo holds release metadata.
type ProjectInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Classifiers []string `json:"classifiers"`

	// RequiresPython is nil when the field is null or missing.
	RequiresPython *string `json:"requires_python"`

	Yanked bool `json:"yanked"`
}
