package persistence

import (
	"time"

	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
)

// fieldValue is one stored enrichment of one vehicle.
type fieldValue struct {
	fin   int64
	field vehicle.Field
	value string
}

// VehicleMapper maps between a fin and VehicleModel.
type VehicleMapper struct{}

// ToDomain converts a VehicleModel to its fin.
func (VehicleMapper) ToDomain(e VehicleModel) int64 {
	return e.Fin
}

// ToModel converts a fin to a new VehicleModel.
func (VehicleMapper) ToModel(fin int64) VehicleModel {
	return VehicleModel{Fin: fin, CreatedAt: time.Now().UTC()}
}

// EnrichmentMapper maps between stored field values and VehicleEnrichmentModel.
type EnrichmentMapper struct{}

// ToDomain converts a VehicleEnrichmentModel to a field value.
func (EnrichmentMapper) ToDomain(e VehicleEnrichmentModel) fieldValue {
	return fieldValue{fin: e.Fin, field: vehicle.Field(e.Field), value: e.Value}
}

// ToModel converts a field value to a VehicleEnrichmentModel.
func (EnrichmentMapper) ToModel(v fieldValue) VehicleEnrichmentModel {
	return VehicleEnrichmentModel{
		Fin:       v.fin,
		Field:     v.field.String(),
		Value:     v.value,
		CreatedAt: time.Now().UTC(),
	}
}

func toEnrichments(values []fieldValue) vehicle.Enrichments {
	m := make(map[vehicle.Field]string, len(values))
	for _, v := range values {
		m[v.field] = v.value
	}
	return vehicle.NewEnrichments(m)
}

func fromEnrichments(fin int64, e vehicle.Enrichments) []fieldValue {
	values := make([]fieldValue, 0, e.Len())
	for _, f := range vehicle.Fields() {
		if v, ok := e.Get(f); ok {
			values = append(values, fieldValue{fin: fin, field: f, value: v})
		}
	}
	return values
}
