package output

import (
	"fmt"
	"io"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/pyupgradecheck/pkg/constants"
)

// WriteCheckResult writes check results in the specified format.
//
// Parameters:
//   - w: Destination writer for the output
//   - format: Any of Formats
//   - result: Check result data to write
//
// Returns:
//   - error: When format is unsupported, returns an error; when write fails, returns the underlying error; otherwise returns nil
func WriteCheckResult(w io.Writer, format Format, result *CheckResult) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatText:
		return writeCheckText(w, result)
	case FormatTable:
		return writeCheckTable(w, result)
	case FormatJSON:
		return formatter.WriteJSON(checkReport(result))
	case FormatJSONArray:
		return formatter.WriteJSON(result)
	case FormatXML:
		return formatter.WriteXML(result)
	case FormatCSV:
		return writeCheckCSV(formatter, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeCheckText(w io.Writer, result *CheckResult) error {
	for _, p := range result.Packages {
		if _, err := fmt.Fprintf(w, "%s %s: %s (%s)\n", p.Name, p.Version, p.Status, p.Details); err != nil {
			return err
		}
	}
	return nil
}

func writeCheckTable(w io.Writer, result *CheckResult) error {
	table := NewTable().
		AddColumn("NAME").
		AddColumn("VERSION").
		AddColumn("STATUS").
		AddColumn("SOURCE").
		AddColumn("DETAILS")

	rows := make([][]string, 0, len(result.Packages))
	for _, p := range result.Packages {
		row := []string{p.Name, p.Version, constants.StatusIcon(p.Status) + " " + p.Status, p.Source, p.Details}
		table.UpdateWidths(row...)
		rows = append(rows, row)
	}

	table.Fprint(w)
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, table.FormatRow(row...)); err != nil {
			return err
		}
	}

	s := result.Summary
	_, err := fmt.Fprintf(w, "\nTarget Python %s: %d package(s) | %s %d supported | %s %d incompatible | %s %d unknown\n",
		s.Target, s.Total,
		constants.IconSuccess, s.Supported,
		constants.IconError, s.Incompatible,
		constants.IconUnknown, s.Unknown)
	return err
}

// checkReport builds {"<name>": {"version", "status", "details", "source"}}
// with packages and keys in a fixed order.
func checkReport(result *CheckResult) *orderedmap.OrderedMap {
	report := orderedmap.New()
	report.SetEscapeHTML(false)
	for _, p := range result.Packages {
		entry := orderedmap.New()
		entry.SetEscapeHTML(false)
		entry.Set("version", p.Version)
		entry.Set("status", p.Status)
		entry.Set("details", p.Details)
		entry.Set("source", p.Source)
		report.Set(p.Name, entry)
	}
	return report
}

func writeCheckCSV(f *Formatter, result *CheckResult) error {
	headers := []string{"NAME", "VERSION", "STATUS", "SOURCE", "SPECIFIER", "CLASSIFIER", "DETAILS"}
	rows := make([][]string, 0, len(result.Packages))
	for _, p := range result.Packages {
		rows = append(rows, []string{p.Name, p.Version, p.Status, p.Source, p.Specifier, p.Classifier, p.Details})
	}
	return f.WriteCSV(headers, rows)
}

// WriteRequirementsResult writes parsed requirements in the specified format.
// Text and table formats print one package name per line.
func WriteRequirementsResult(w io.Writer, format Format, result *RequirementsResult) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatText, FormatTable:
		for _, name := range result.Packages {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON, FormatJSONArray:
		return formatter.WriteJSON(result)
	case FormatXML:
		return formatter.WriteXML(result)
	case FormatCSV:
		rows := make([][]string, 0, len(result.Packages))
		for _, name := range result.Packages {
			rows = append(rows, []string{name})
		}
		return formatter.WriteCSV([]string{"NAME"}, rows)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
