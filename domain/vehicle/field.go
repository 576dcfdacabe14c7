// Package vehicle provides domain types for vehicle records and their lazily
// generated enrichments.
package vehicle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField indicates a field name outside the enrichable set.
var ErrUnknownField = errors.New("unknown enrichment field")

// Field names one lazily generated attribute of a vehicle.
type Field string

// Enrichable fields.
const (
	FieldTexts Field = "texts"
	FieldCodes Field = "codes"
	FieldPics  Field = "pics"
)

// Fields returns every enrichable field in declaration order.
func Fields() []Field {
	return []Field{FieldTexts, FieldCodes, FieldPics}
}

// ParseField converts a name into a Field.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// ParseFields converts a comma-separated list into fields, dropping
// duplicates. An empty list yields every field.
func ParseFields(list string) ([]Field, error) {
	if strings.TrimSpace(list) == "" {
		return Fields(), nil
	}

	seen := make(map[Field]struct{}, 3)
	var fields []Field
	for _, part := range strings.Split(list, ",") {
		f, err := ParseField(part)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		fields = append(fields, f)
	}
	return fields, nil
}

// Valid reports whether f is one of the enrichable fields.
func (f Field) Valid() bool {
	switch f {
	case FieldTexts, FieldCodes, FieldPics:
		return true
	}
	return false
}

// String returns the field name.
func (f Field) String() string { return string(f) }
