package models

// Tag and Ingredient are static reference data. They are seeded by
// cmd/loaddata and only ever read through the API.

type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex:idx_tag_identity" json:"name"`
	Slug  string `gorm:"size:200;not null;uniqueIndex:idx_tag_identity" json:"slug"`
	Color string `gorm:"size:7;not null;uniqueIndex:idx_tag_identity" json:"color"`
}

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_identity" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_identity" json:"measurement_unit"`
}
