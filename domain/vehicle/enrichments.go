package vehicle

import "maps"

// Enrichments is the set of fields already generated for one vehicle.
// It is an immutable value: With returns a modified copy.
type Enrichments struct {
	values map[Field]string
}

// NewEnrichments creates an enrichment set from a field/value map.
// Entries with invalid field names are dropped.
func NewEnrichments(values map[Field]string) Enrichments {
	if len(values) == 0 {
		return Enrichments{}
	}
	copied := make(map[Field]string, len(values))
	for f, v := range values {
		if f.Valid() {
			copied[f] = v
		}
	}
	return Enrichments{values: copied}
}

// Get returns the value generated for f, if any.
func (e Enrichments) Get(f Field) (string, bool) {
	v, ok := e.values[f]
	return v, ok
}

// Has reports whether f has been generated.
func (e Enrichments) Has(f Field) bool {
	_, ok := e.values[f]
	return ok
}

// With returns a copy of the set with f set to value.
func (e Enrichments) With(f Field, value string) Enrichments {
	next := make(map[Field]string, len(e.values)+1)
	maps.Copy(next, e.values)
	next[f] = value
	return Enrichments{values: next}
}

// Len returns the number of generated fields.
func (e Enrichments) Len() int { return len(e.values) }

// IsEmpty reports whether no field has been generated yet.
func (e Enrichments) IsEmpty() bool { return len(e.values) == 0 }

// Map returns a copy of the underlying field/value map.
func (e Enrichments) Map() map[Field]string {
	out := make(map[Field]string, len(e.values))
	maps.Copy(out, e.values)
	return out
}
