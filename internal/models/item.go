// internal/models/item.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	BaseModel
	ProductTypeID uuid.UUID  `json:"product_type_id" gorm:"type:uuid;not null;index"`
	AddedBy       uuid.UUID  `json:"added_by" gorm:"type:uuid;not null;index"`
	SerialNumber  string     `json:"serial_number" gorm:"size:255;not null;index"`
	IsSold        bool       `json:"is_sold" gorm:"not null;default:false"`
	SoldAt        *time.Time `json:"sold_at"`

	// Relationships
	ProductType *ProductType `json:"product_type,omitempty" gorm:"foreignKey:ProductTypeID"`
}

// MarkSold sets the sold flag and timestamp together.
func (i *Item) MarkSold(at time.Time) {
	i.IsSold = true
	i.SoldAt = &at
}

func (i *Item) MarkUnsold() {
	i.IsSold = false
	i.SoldAt = nil
}
