// Package registry defines the canonical field registry: the structured
// record store for track-table field definitions. Artifact codecs parse
// legacy representations into Field records and render them back; the
// registry itself never performs source-text surgery.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/waxworks/shellac/pkg/errors"
)

// Kind is the value type of a field definition.
type Kind string

// Field kinds supported by the track table.
const (
	KindText     Kind = "text"
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindDate     Kind = "date"
	KindDuration Kind = "duration"
	KindRating   Kind = "rating"
)

// Kinds lists all valid kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindText, KindInteger, KindFloat, KindBool, KindDate, KindDuration, KindRating}
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether the kind is one of the enumerated kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindInteger, KindFloat, KindBool, KindDate, KindDuration, KindRating:
		return true
	}
	return false
}

// ParseKind parses a kind from its string form. It accepts both the
// lowercase canonical form and the uppercase identifier used in
// definitions files (TEXT, INTEGER, ...).
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", errors.NewValidationError("kind", s, fmt.Sprintf("unknown kind %q", s))
	}
	return k, nil
}

// Field is a single track-table field definition. All attributes are
// scalar so fields can round-trip losslessly through every artifact.
type Field struct {
	Key         string `json:"key" yaml:"key"`                                     // Unique snake_case identifier
	Column      string `json:"column" yaml:"column"`                               // Backing database column (table.column)
	Kind        Kind   `json:"kind" yaml:"kind"`                                   // Value type
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`             // Human-readable column header
	Description string `json:"description,omitempty" yaml:"description,omitempty"` // Long-form prose for documentation
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`         // Literal rendering of the default value
	Group       string `json:"group,omitempty" yaml:"group,omitempty"`             // Logical grouping (core, playback, custom...)
	Width       int    `json:"width,omitempty" yaml:"width,omitempty"`             // Default column width in px, 0 means auto
	Editable    bool   `json:"editable" yaml:"editable"`                           // Whether the value can be edited in the UI
	Visible     bool   `json:"visible" yaml:"visible"`                             // Shown by default in the track table
	Sortable    bool   `json:"sortable" yaml:"sortable"`                           // Whether the column can be sorted
	Searchable  bool   `json:"searchable" yaml:"searchable"`                       // Participates in free-text search
	Since       string `json:"since,omitempty" yaml:"since,omitempty"`             // App version that introduced the field
}

// keyPattern constrains field keys to snake_case identifiers.
var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate checks the field's invariants. It returns the first hard
// error encountered; advisory issues are reported by Warnings.
func (f *Field) Validate() error {
	if f.Key == "" {
		return errors.NewValidationError("key", f.Key, "key is required")
	}
	if !keyPattern.MatchString(f.Key) {
		return errors.NewValidationError("key", f.Key, "key must match [a-z][a-z0-9_]*")
	}
	if f.Column == "" {
		return errors.NewValidationError("column", f.Column, fmt.Sprintf("field %s: column is required", f.Key))
	}
	if parts := strings.Split(f.Column, "."); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.NewValidationError("column", f.Column, fmt.Sprintf("field %s: column must be of the form table.column", f.Key))
	}
	if !f.Kind.Valid() {
		return errors.NewValidationError("kind", f.Kind, fmt.Sprintf("field %s: unknown kind %q", f.Key, f.Kind))
	}
	if f.Width < 0 {
		return errors.NewValidationError("width", f.Width, fmt.Sprintf("field %s: width must be >= 0", f.Key))
	}
	return nil
}

// Warnings returns advisory validation issues that do not block a sync.
func (f Field) Warnings() []string {
	var warnings []string
	if f.Kind == KindRating && f.Editable {
		warnings = append(warnings, fmt.Sprintf("field %s: rating fields should not be editable via free text", f.Key))
	}
	if f.Label == "" {
		warnings = append(warnings, fmt.Sprintf("field %s: label is empty", f.Key))
	}
	if f.Visible && f.Width == 0 {
		warnings = append(warnings, fmt.Sprintf("field %s: visible field has auto width", f.Key))
	}
	return warnings
}

// Equal reports whether two fields have identical attributes.
func (f Field) Equal(other Field) bool {
	return f == other
}

// String returns a short human-readable form for logs.
func (f Field) String() string {
	return fmt.Sprintf("%s (%s, %s)", f.Key, f.Kind, f.Column)
}

// SortFields sorts fields into the canonical artifact order: by group,
// then by key. The sort is stable so repeated renders are identical.
func SortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Group != fields[j].Group {
			return fields[i].Group < fields[j].Group
		}
		return fields[i].Key < fields[j].Key
	})
}

// Keys returns the keys of the given fields in order.
func Keys(fields []Field) []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}
