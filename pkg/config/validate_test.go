package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateConfigFile tests strict decoding and value checks.
//
// It verifies:
//   - Valid and empty documents pass
//   - Each constraint produces an error on the right field
func TestValidateConfigFile(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantField string
		wantMsg   string
	}{
		{name: "empty", yaml: ""},
		{name: "full", yaml: `
target: "3.13"
strict: true
registry:
  url: https://test.pypi.org
  timeout_seconds: 10
  concurrency: 4
site_packages: [.venv/lib/python3.13/site-packages]
ignore: [pip]
output: json-array
fail_on: [incompatible, unknown]
metrics_file: out.prom
`},
		{name: "bad target", yaml: "target: \"3\"\n", wantField: "target"},
		{name: "python 2 target", yaml: "target: \"2.7\"\n", wantField: "target"},
		{name: "bad output", yaml: "output: html\n", wantField: "output", wantMsg: "unsupported format"},
		{name: "bad fail_on", yaml: "fail_on: [broken]\n", wantField: "fail_on[0]", wantMsg: "unknown status"},
		{name: "empty ignore", yaml: "ignore: [\"\"]\n", wantField: "ignore[0]", wantMsg: "empty package pattern"},
		{name: "bad ignore regex", yaml: "ignore: [pip, \"~(\"]\n", wantField: "ignore[1]", wantMsg: "invalid package regex"},
		{name: "empty site-packages", yaml: "site_packages: [\" \"]\n", wantField: "site_packages[0]"},
		{name: "bad url", yaml: "registry:\n  url: ftp://example.com\n", wantField: "registry.url"},
		{name: "relative url", yaml: "registry:\n  url: /simple\n", wantField: "registry.url"},
		{name: "negative timeout", yaml: "registry:\n  timeout_seconds: -1\n", wantField: "registry.timeout_seconds"},
		{name: "negative concurrency", yaml: "registry:\n  concurrency: -2\n", wantField: "registry.concurrency"},
		{name: "negative size", yaml: "security:\n  max_config_file_size: -1\n", wantField: "security.max_config_file_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateConfigFile([]byte(tt.yaml))
			if tt.wantField == "" {
				assert.False(t, result.HasErrors(), result.ErrorMessages())
				return
			}
			require.True(t, result.HasErrors())
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			if tt.wantMsg != "" {
				assert.Contains(t, result.Errors[0].Message, tt.wantMsg)
			}
		})
	}
}

// TestValidateConfigFile_UnknownField tests unknown-field reporting.
//
// It verifies:
//   - The field name and line are reported
//   - Known typos get a suggestion
//   - Schema hints appear in the verbose message
func TestValidateConfigFile_UnknownField(t *testing.T) {
	result := ValidateConfigFile([]byte("registry:\n  timeout: 3\n"))
	require.True(t, result.HasErrors())

	err := result.Errors[0]
	assert.Contains(t, err.Message, "unknown field 'timeout' (line 2)")
	assert.Contains(t, err.Message, "did you mean 'timeout_seconds'?")

	detail := err.VerboseError()
	assert.Contains(t, detail, "Valid keys: url, timeout_seconds, concurrency, user_agent")
	assert.Contains(t, detail, "docs/configuration.md#registry")

	result = ValidateConfigFile([]byte("fail-on: [unknown]\n"))
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Message, "did you mean 'fail_on'?")
}

// TestValidateConfigFile_SyntaxAndTypes tests non-field decode failures.
//
// It verifies:
//   - Type mismatches report the expected type
//   - Broken YAML is reported as a syntax error
func TestValidateConfigFile_SyntaxAndTypes(t *testing.T) {
	result := ValidateConfigFile([]byte("strict: [1, 2]\n"))
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Message, "cannot unmarshal")
	assert.Equal(t, "bool", result.Errors[0].Expected)

	result = ValidateConfigFile([]byte("target: \"3.12\n  bad: [\n"))
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Message, "YAML syntax error")
}

// TestValidateConfigFile_Warnings tests non-fatal findings.
//
// It verifies:
//   - A very high concurrency is a warning, not an error
func TestValidateConfigFile_Warnings(t *testing.T) {
	result := ValidateConfigFile([]byte("registry:\n  concurrency: 100\n"))
	assert.False(t, result.HasErrors())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "registry.concurrency=100")
}

// TestValidationResultMessages tests the aggregate message helpers.
//
// It verifies:
//   - No errors yields empty messages
//   - Messages are prefixed and joined
func TestValidationResultMessages(t *testing.T) {
	var r ValidationResult
	assert.Empty(t, r.ErrorMessages())
	assert.Empty(t, r.VerboseErrorMessages())

	r.Errors = []ValidationError{
		{Field: "target", Message: "bad", Expected: "3.x"},
		{Message: "other"},
	}
	assert.Equal(t, "Configuration validation failed:\n  - target: bad\n  - other", r.ErrorMessages())
	assert.Contains(t, r.VerboseErrorMessages(), "Expected: 3.x")
}

// TestMergeConfigs tests the layering rules used by extends.
//
// It verifies:
//   - Scalars and registry fields from custom win when set
//   - Lists are unioned in order, fail_on is replaced
//   - A nil custom returns base
func TestMergeConfigs(t *testing.T) {
	yes, no := true, false
	base := &Config{
		Target:       "3.11",
		Strict:       &yes,
		Registry:     RegistryCfg{URL: "https://pypi.org", Concurrency: 8, TimeoutSeconds: 5},
		SitePackages: []string{"a"},
		Ignore:       []string{"pip"},
		FailOn:       []string{"incompatible", "unknown"},
		Output:       "text",
	}
	custom := &Config{
		Strict:       &no,
		Registry:     RegistryCfg{Concurrency: 2},
		SitePackages: []string{"b", "a"},
		FailOn:       []string{"unknown"},
		Output:       "json",
	}

	merged := mergeConfigs(base, custom)
	assert.Equal(t, "3.11", merged.Target)
	assert.False(t, merged.IsStrict())
	assert.Equal(t, RegistryCfg{URL: "https://pypi.org", Concurrency: 2, TimeoutSeconds: 5}, merged.Registry)
	assert.Equal(t, []string{"a", "b"}, merged.SitePackages)
	assert.Equal(t, []string{"pip"}, merged.Ignore)
	assert.Equal(t, []string{"unknown"}, merged.FailOn)
	assert.Equal(t, "json", merged.Output)

	assert.Same(t, base, mergeConfigs(base, nil))
}
