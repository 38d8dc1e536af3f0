package models

import "gorm.io/gorm"

// Product represents a product in the catalog. Price is stored in the
// smallest currency unit, so it is always a non-negative integer.
type Product struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,max=500"`
	Price       int64  `json:"price" validate:"gte=0"`
	Image       string `json:"image" validate:"omitempty,max=255"` // uploaded filename, empty means no image
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
