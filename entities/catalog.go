package entities

import (
	"github.com/google/uuid"
)

// Tag and Ingredient are shared reference data. Recipe operations read
// them but never create or delete rows here.
type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug string    `gorm:"uniqueIndex;not null" json:"slug"`
}

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"uniqueIndex:idx_ingredient_identity;not null" json:"name"`
	MeasurementUnit string    `gorm:"uniqueIndex:idx_ingredient_identity;not null" json:"measurement_unit"`
}
