// Package constants provides centralized string constants used throughout the application.
// This eliminates magic strings and provides a single source of truth for verdict
// and evidence-source values shared by the evaluator and the output layer.
package constants

// Verdict status values. These are the wire values written to every output
// format and must stay stable across releases.
const (
	// StatusSupported indicates the package declares support for the target version.
	StatusSupported = "supported"

	// StatusIncompatible indicates the package's requires_python excludes the target version.
	StatusIncompatible = "incompatible"

	// StatusUnknown indicates the metadata was missing, malformed, or inconclusive.
	StatusUnknown = "unknown"
)

// Evidence source values describe which signal produced a verdict.
const (
	// SourceRegistry means the verdict came from a requires_python specifier.
	SourceRegistry = "PyPI"

	// SourceClassifier means the verdict came from trove classifiers.
	SourceClassifier = "classifier"

	// SourceStrict means the verdict came from the strict-mode reconciliation.
	SourceStrict = "strict"

	// SourceNone means no usable metadata was available.
	SourceNone = "none"
)

// Metadata origins, reported in evidence details and verbose logs.
const (
	// OriginPyPI is metadata fetched from the registry JSON API.
	OriginPyPI = "pypi"

	// OriginInstalled is metadata read from an installed dist-info directory.
	OriginInstalled = "installed"
)

// Placeholder values for display when data is not available.
const (
	// PlaceholderVersion is shown when no installed or registry version is known.
	PlaceholderVersion = "unknown"

	// PlaceholderNA is used in table cells when a value is not available.
	PlaceholderNA = "#N/A"
)

// ClassifierPrefix is the trove classifier prefix for Python language versions.
const ClassifierPrefix = "Programming Language :: Python ::"

// Icon constants for status display.
// These provide visual indicators for verdicts in table output.
const (
	// IconSuccess indicates a supported package (green circle).
	IconSuccess = "🟢"

	// IconError indicates an incompatible package (red X).
	IconError = "❌"

	// IconUnknown indicates an unknown verdict (white circle).
	IconUnknown = "⚪"

	// IconWarn is the warning prefix for messages.
	IconWarn = "⚠️"

	// IconCheckmarkBox indicates successful validation (checkmark in box).
	IconCheckmarkBox = "✅"

	// IconLightbulb indicates a hint or suggestion.
	IconLightbulb = "💡"
)

// StatusIcon returns the display icon for a verdict status value.
//
// Parameters:
//   - status: One of StatusSupported, StatusIncompatible, StatusUnknown
//
// Returns:
//   - string: The matching icon; IconUnknown for any other value
func StatusIcon(status string) string {
	switch status {
	case StatusSupported:
		return IconSuccess
	case StatusIncompatible:
		return IconError
	default:
		return IconUnknown
	}
}
