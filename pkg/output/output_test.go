package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/pyupgradecheck/pkg/compat"
	pkgerrors "github.com/ajxudir/pyupgradecheck/pkg/errors"
	"github.com/ajxudir/pyupgradecheck/pkg/requirements"
)

func strPtr(s string) *string { return &s }

func sampleResult() *CheckResult {
	target := compat.MustParseTarget("3.13")
	results := []compat.Result{
		compat.Evaluate("requests", compat.Metadata{Version: "2.31.0", Specifier: strPtr(">=3.7")}, target, false),
		compat.Evaluate("numpy", compat.Metadata{Version: "1.21.0", Specifier: strPtr(">=3.7,<3.11")}, target, false),
		compat.Evaluate("ghost", compat.Metadata{}, target, false),
	}
	errs := []error{&pkgerrors.MetadataError{Package: "ghost", Origin: "pypi", Err: errors.New("timeout")}}
	return NewCheckResult(target, false, results, []string{"registry slow"}, errs)
}

// TestParseFormat tests format name parsing.
func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, got)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
	assert.Contains(t, err.Error(), "json-array")

	assert.True(t, IsStructuredFormat(FormatJSONArray))
	assert.False(t, IsStructuredFormat(FormatTable))
	assert.False(t, IsStructuredFormat(FormatText))
}

// TestNewCheckResult tests summary counting.
func TestNewCheckResult(t *testing.T) {
	res := sampleResult()
	assert.Equal(t, CheckSummary{Target: "3.13", Total: 3, Supported: 1, Incompatible: 1, Unknown: 1}, res.Summary)
	assert.Equal(t, "PyPI", res.Packages[0].Source)
	assert.Equal(t, ">=3.7", res.Packages[0].Specifier)
	assert.Equal(t, []string{"ghost: pypi metadata unavailable: timeout"}, res.Errors)
}

// TestWriteCheckResult tests every check output format.
//
// It verifies:
//   - text lines follow "<name> <version>: <verdict> (<evidence>)"
//   - json is keyed by name in result order with fixed keys
//   - json-array, csv and xml carry every package
//   - table aligns columns and prints a summary
func TestWriteCheckResult(t *testing.T) {
	res := sampleResult()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCheckResult(&buf, FormatText, res))
		assert.Equal(t,
			"requests 2.31.0: supported (PyPI requires_python: >=3.7)\n"+
				"numpy 1.21.0: incompatible (PyPI requires_python: >=3.7,<3.11)\n"+
				"ghost unknown: unknown (no metadata found)\n",
			buf.String())
	})

	t.Run("json keyed", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCheckResult(&buf, FormatJSON, res))
		out := buf.String()

		assert.Less(t, strings.Index(out, `"requests"`), strings.Index(out, `"numpy"`))
		assert.Less(t, strings.Index(out, `"numpy"`), strings.Index(out, `"ghost"`))
		assert.Less(t, strings.Index(out, `"version"`), strings.Index(out, `"status"`))
		assert.Less(t, strings.Index(out, `"details"`), strings.Index(out, `"source"`))

		var decoded map[string]map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, map[string]string{
			"version": "1.21.0",
			"status":  "incompatible",
			"details": "PyPI requires_python: >=3.7,<3.11",
			"source":  "PyPI",
		}, decoded["numpy"])

		var again bytes.Buffer
		require.NoError(t, WriteCheckResult(&again, FormatJSON, sampleResult()))
		assert.Equal(t, out, again.String())
	})

	t.Run("json array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCheckResult(&buf, FormatJSONArray, res))
		var decoded CheckResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Packages, 3)
		assert.Equal(t, "ghost", decoded.Packages[2].Name)
		assert.Equal(t, []string{"registry slow"}, decoded.Warnings)
		assert.Equal(t, 1, decoded.Summary.Unknown)
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCheckResult(&buf, FormatCSV, res))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"NAME", "VERSION", "STATUS", "SOURCE", "SPECIFIER", "CLASSIFIER", "DETAILS"}, records[0])
		assert.Equal(t, ">=3.7,<3.11", records[2][4])
	})

	t.Run("xml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCheckResult(&buf, FormatXML, res))
		assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))
		var decoded CheckResult
		require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
		assert.Len(t, decoded.Packages, 3)
		assert.Equal(t, "3.13", decoded.Summary.Target)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCheckResult(&buf, FormatTable, res))
		lines := strings.Split(buf.String(), "\n")
		assert.True(t, strings.HasPrefix(lines[0], "NAME"))
		assert.True(t, strings.HasPrefix(lines[1], "--------"))
		assert.Contains(t, lines[2], "requests")
		assert.Equal(t, strings.Index(lines[0], "VERSION"), strings.Index(lines[3], "1.21.0"))
		assert.Contains(t, buf.String(), "Target Python 3.13: 3 package(s)")
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, WriteCheckResult(&bytes.Buffer{}, Format("yaml"), res))
	})
}

// TestWriteRequirementsResult tests requirements output.
func TestWriteRequirementsResult(t *testing.T) {
	parsed, err := requirements.ParseDetailed(strings.NewReader("Flask\n-e .\nrequests\n"))
	require.NoError(t, err)
	res := NewRequirementsResult("requirements.txt", parsed)

	var buf bytes.Buffer
	require.NoError(t, WriteRequirementsResult(&buf, FormatText, res))
	assert.Equal(t, "flask\nrequests\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRequirementsResult(&buf, FormatJSON, res))
	var decoded RequirementsResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"flask", "requests"}, decoded.Packages)
	require.Len(t, decoded.Skipped, 1)
	assert.Equal(t, 2, decoded.Skipped[0].Line)

	buf.Reset()
	require.NoError(t, WriteRequirementsResult(&buf, FormatCSV, res))
	assert.Equal(t, "NAME\nflask\nrequests\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRequirementsResult(&buf, FormatXML, res))
	assert.Contains(t, buf.String(), `<line number="2" reason="editable install">-e .</line>`)

	empty := NewRequirementsResult("r.txt", requirements.Result{})
	assert.NotNil(t, empty.Packages)

	assert.Error(t, WriteRequirementsResult(&buf, Format("yaml"), res))
}

// TestTable tests Unicode-aware alignment.
func TestTable(t *testing.T) {
	tbl := NewTable().AddColumn("A").AddColumn("B")
	tbl.UpdateWidths("🟢 ok", "x")
	assert.Equal(t, 2, tbl.ColumnCount())
	assert.Equal(t, "A      B", tbl.HeaderRow())
	assert.Equal(t, "-----  -", tbl.SeparatorRow())
	assert.Equal(t, "🟢 ok  x", tbl.FormatRow("🟢 ok", "x"))
	assert.Equal(t, "z", tbl.FormatRow("z"))

	assert.Equal(t, "a | b", NewTable().WithSeparator(" | ").AddColumn("a").AddColumn("b").HeaderRow())

	assert.Equal(t, 2, DisplayWidth("日"))
	assert.Equal(t, "日 ", ToWidth("日", 3))
	assert.Equal(t, "abc", ToWidth("abc", 2))
	assert.Equal(t, "abc", ToWidth("abc", 0))
}

// TestProgress tests the progress indicator.
func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 4, "Checking")
	p.Increment()
	p.Increment()
	assert.Contains(t, buf.String(), "Checking: 2/4 (50%)")

	p.Clear()
	assert.True(t, strings.HasSuffix(buf.String(), "\r"))

	buf.Reset()
	p.SetEnabled(false)
	p.Increment()
	p.Clear()
	assert.Empty(t, buf.String())

	zero := NewProgress(&buf, 0, "x")
	zero.Increment()
	assert.Empty(t, buf.String())
}

func TestWriteJSONDoesNotEscapeSpecifiers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCheckResult(&buf, FormatJSON, sampleResult()))
	assert.Contains(t, buf.String(), ">=3.7")
	assert.NotContains(t, buf.String(), `\u003e`)
}
