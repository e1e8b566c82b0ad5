package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Column represents a single table column with its header and current width.
type Column struct {
	Header string
	Width  int
}

// Table provides a table formatter with dynamic column widths.
// It handles Unicode-aware width calculations so status icons line up.
type Table struct {
	columns   []Column
	separator string
}

// NewTable creates a new table formatter with a two-space separator.
func NewTable() *Table {
	return &Table{
		columns:   make([]Column, 0),
		separator: "  ",
	}
}

// WithSeparator sets a custom column separator and returns the table.
func (t *Table) WithSeparator(sep string) *Table {
	t.separator = sep
	return t
}

// AddColumn adds a column whose initial width is its header width.
//
// Parameters:
//   - header: The column header text
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) AddColumn(header string) *Table {
	t.columns = append(t.columns, Column{Header: header, Width: DisplayWidth(header)})
	return t
}

// UpdateWidths widens columns to fit a data row.
//
// Parameters:
//   - values: Variable number of strings representing a data row
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) UpdateWidths(values ...string) *Table {
	for i, val := range values {
		if i < len(t.columns) {
			if width := DisplayWidth(val); width > t.columns[i].Width {
				t.columns[i].Width = width
			}
		}
	}
	return t
}

// HeaderRow returns the formatted header row string.
func (t *Table) HeaderRow() string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = ToWidth(col.Header, col.Width)
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// SeparatorRow returns a separator row with dashes matching column widths.
func (t *Table) SeparatorRow() string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = strings.Repeat("-", col.Width)
	}
	return strings.Join(parts, t.separator)
}

// FormatRow pads each value to its column width. Missing values are empty
// and trailing padding is trimmed.
func (t *Table) FormatRow(values ...string) string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		parts[i] = ToWidth(val, col.Width)
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// Fprint outputs the table header and separator to the given writer.
//
// Parameters:
//   - w: The writer to output to (e.g., os.Stdout, os.Stderr, or a buffer)
func (t *Table) Fprint(w io.Writer) {
	_, _ = fmt.Fprintln(w, t.HeaderRow())
	_, _ = fmt.Fprintln(w, t.SeparatorRow())
}

// DisplayWidth returns the terminal cell width of a string; wide characters
// and emoji count as two cells.
func DisplayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// ToWidth pads a string with spaces to a display width. Strings already at
// or beyond width are returned unchanged.
func ToWidth(val string, width int) string {
	if width <= 0 {
		return val
	}
	current := DisplayWidth(val)
	if current >= width {
		return val
	}
	return val + strings.Repeat(" ", width-current)
}
