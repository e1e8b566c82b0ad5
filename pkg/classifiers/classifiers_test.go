package classifiers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajxudir/pyupgradecheck/pkg/specifier"
)

var sample = []string{
	"Development Status :: 5 - Production/Stable",
	"Programming Language :: Python",
	"Programming Language :: Python :: 3",
	"Programming Language :: Python :: 3 :: Only",
	"Programming Language :: Python :: 3.11",
	"Programming Language :: Python :: 3.12",
	"Programming Language :: Python :: 3.12",
	"Programming Language :: Python :: Implementation :: CPython",
	"  Programming Language :: Python :: 2.7  ",
}

// TestParse tests which classifiers carry version evidence.
func TestParse(t *testing.T) {
	s := Parse(sample)
	assert.False(t, s.Empty())
	assert.Equal(t, []string{"3", "3.11", "3.12", "2.7"}, s.Versions())
	assert.Equal(t, "Programming Language :: Python :: 2.7", s.Entries()[3].Text)

	assert.True(t, Parse(nil).Empty())
	assert.True(t, Parse([]string{"Programming Language :: Python :: Implementation :: PyPy"}).Empty())
	assert.True(t, Parse([]string{"Programming Language :: Python :: 3.x"}).Empty())
}

// TestMatch tests classifier lookup for a target.
//
// It verifies:
//   - An exact major.minor classifier wins over a bare major one
//   - A bare major classifier matches any minor of that major
//   - A different minor of the same major does not match
func TestMatch(t *testing.T) {
	tests := []struct {
		name   string
		list   []string
		target specifier.Version
		want   string
		ok     bool
	}{
		{"exact", sample, specifier.Version{Major: 3, Minor: 12}, "Programming Language :: Python :: 3.12", true},
		{"bare major", sample, specifier.Version{Major: 3, Minor: 13}, "Programming Language :: Python :: 3", true},
		{"other major", sample, specifier.Version{Major: 4, Minor: 0}, "", false},
		{"minor only", []string{"Programming Language :: Python :: 3.9"}, specifier.Version{Major: 3, Minor: 13}, "", false},
		{"10 is not 1", []string{"Programming Language :: Python :: 3.1"}, specifier.Version{Major: 3, Minor: 10}, "", false},
		{"empty", nil, specifier.Version{Major: 3, Minor: 13}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.list).Match(tt.target)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.Text)
		})
	}
}

func TestMentionsMajor(t *testing.T) {
	s := Parse([]string{"Programming Language :: Python :: 3.9"})
	assert.True(t, s.MentionsMajor(3))
	assert.False(t, s.MentionsMajor(2))
}
