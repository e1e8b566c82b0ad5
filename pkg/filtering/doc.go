// Package filtering selects packages by name pattern.
//
// Patterns are used by the ignore list. Three forms are accepted:
//
//	pip            exact name, compared after PEP 503 normalization
//	types-*        glob (path.Match syntax) against the normalized name
//	~^django-.*$   regular expression against the normalized name
//
// Example:
//
//	f, err := filtering.NewFilter([]string{"pip", "types-*"})
//	if err != nil { ... }
//	f.Match("Types_Requests") // true
package filtering
