// internal/models/product_type.go
package models

import (
	"github.com/google/uuid"
)

type ProductType struct {
	BaseModel
	Name string `json:"name" gorm:"size:255;not null;index"`

	// Computed columns, filled by list queries only
	AvailableItemsCount int64  `json:"available_items_count" gorm:"->;-:migration"`
	Image               string `json:"image" gorm:"-"`

	// Relationships
	Items []Item `json:"items,omitempty" gorm:"foreignKey:ProductTypeID"`
}

// MediaModelType is the model_type stored on media rows that belong to product types.
func (ProductType) MediaModelType() string {
	return "product_types"
}

func (p ProductType) MediaModelID() uuid.UUID {
	return p.ID
}
