package persistence

import "time"

// VehicleModel marks a fin as initialized.
type VehicleModel struct {
	Fin       int64     `gorm:"column:fin;primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName specifies the table name for VehicleModel.
func (VehicleModel) TableName() string { return "vehicles" }

// VehicleEnrichmentModel stores one generated field value of a vehicle.
type VehicleEnrichmentModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Fin       int64     `gorm:"column:fin;not null;uniqueIndex:idx_vehicle_enrichments_fin_field,priority:1"`
	Field     string    `gorm:"column:field;not null;type:text;uniqueIndex:idx_vehicle_enrichments_fin_field,priority:2"`
	Value     string    `gorm:"column:value;not null;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName specifies the table name for VehicleEnrichmentModel.
func (VehicleEnrichmentModel) TableName() string { return "vehicle_enrichments" }
