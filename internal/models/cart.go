package models

import "gorm.io/gorm"

// CartLine is a single (product, quantity) pair inside a cart. The
// auto-increment primary key preserves insertion order.
type CartLine struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	CartID    string `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// Cart is the persisted cart for one user. Total is a derived value:
// it is recomputed from live product prices on every operation, never
// trusted across requests.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required"`
	Items      []CartLine `json:"items" gorm:"foreignKey:CartID"`
	Total      int64      `json:"total" validate:"gte=0"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
