// Package output renders check and requirements results as text, tables,
// JSON, CSV or XML.
package output

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is one "<name> <version>: <verdict> (<evidence>)" line per package.
	FormatText Format = "text"
	// FormatTable is an aligned terminal table with a summary line.
	FormatTable Format = "table"
	// FormatJSON is an object keyed by package name in result order.
	FormatJSON Format = "json"
	// FormatJSONArray is the full result document with packages as an array.
	FormatJSONArray Format = "json-array"
	// FormatCSV outputs data as comma-separated values.
	FormatCSV Format = "csv"
	// FormatXML outputs data as XML.
	FormatXML Format = "xml"
)

// Formats lists every accepted format name.
var Formats = []Format{FormatText, FormatTable, FormatJSON, FormatJSONArray, FormatCSV, FormatXML}

// ParseFormat parses a format name, case-insensitively. An empty string
// selects FormatText.
//
// Parameters:
//   - s: Format name (e.g., "json", "CSV")
//
// Returns:
//   - Format: The parsed format
//   - error: When the name is not one of Formats
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (valid: %s)", s, FormatNames())
}

// FormatNames returns the accepted names joined for help text.
func FormatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// IsStructuredFormat returns true if the format is meant for machine consumption.
//
// Parameters:
//   - f: The format to check
//
// Returns:
//   - bool: true for JSON, JSON array, CSV and XML
func IsStructuredFormat(f Format) bool {
	switch f {
	case FormatJSON, FormatJSONArray, FormatCSV, FormatXML:
		return true
	}
	return false
}

// Formatter handles writing data in a specific format.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a new formatter for the given format and writer.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{format: format, writer: writer}
}

// Format returns the current format.
func (f *Formatter) Format() Format {
	return f.format
}

// WriteCSV writes a header row and data rows.
//
// Note: csv.Writer buffers all writes and only reports errors via Error() after Flush().
//
// Parameters:
//   - headers: Column headers for the CSV
//   - rows: Data rows, each row should have the same number of columns as headers
//
// Returns:
//   - error: When write or flush fails, returns the underlying error; otherwise returns nil
func (f *Formatter) WriteCSV(headers []string, rows [][]string) error {
	w := csv.NewWriter(f.writer)

	_ = w.Write(headers)
	for _, row := range rows {
		_ = w.Write(row)
	}

	w.Flush()
	return w.Error()
}

// WriteJSON writes data as JSON indented by two spaces. Specifiers such as
// ">=3.8" are written literally rather than as \u003e escapes.
func (f *Formatter) WriteJSON(data interface{}) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteXML writes the XML header followed by data indented by two spaces.
func (f *Formatter) WriteXML(data interface{}) error {
	_, _ = fmt.Fprint(f.writer, xml.Header)
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(f.writer)
	return nil
}
