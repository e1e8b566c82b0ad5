package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStatusConstants tests the behavior of status constants.
//
// It verifies:
//   - Status constants have the expected string values
//   - Prevents accidental changes to status constant values
func TestStatusConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"StatusSupported", StatusSupported, "supported"},
		{"StatusIncompatible", StatusIncompatible, "incompatible"},
		{"StatusUnknown", StatusUnknown, "unknown"},
		{"SourceRegistry", SourceRegistry, "PyPI"},
		{"SourceClassifier", SourceClassifier, "classifier"},
		{"SourceStrict", SourceStrict, "strict"},
		{"SourceNone", SourceNone, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constant, "constant %s has unexpected value", tt.name)
		})
	}
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, IconSuccess, StatusIcon(StatusSupported))
	assert.Equal(t, IconError, StatusIcon(StatusIncompatible))
	assert.Equal(t, IconUnknown, StatusIcon(StatusUnknown))
	assert.Equal(t, IconUnknown, StatusIcon("bogus"))
}
