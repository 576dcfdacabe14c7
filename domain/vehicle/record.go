package vehicle

// Record is a vehicle with a subset of its enrichments resolved.
type Record struct {
	fin    int64
	values map[Field]string
}

// NewRecord creates a Record for fin with the given resolved values.
func NewRecord(fin int64, values map[Field]string) Record {
	return Record{fin: fin, values: NewEnrichments(values).Map()}
}

// Fin returns the vehicle identifier.
func (r Record) Fin() int64 { return r.fin }

// Value returns the resolved value of f.
func (r Record) Value(f Field) (string, bool) {
	v, ok := r.values[f]
	return v, ok
}

// Values returns a copy of the resolved values.
func (r Record) Values() map[Field]string {
	return NewEnrichments(r.values).Map()
}
