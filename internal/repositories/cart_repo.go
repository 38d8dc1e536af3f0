package repositories

import "storefront/internal/models"

// CartRepository defines the interface for cart data access. A user
// owns at most one cart; GetByUserID returns it with its lines loaded
// in insertion order.
type CartRepository interface {
	GetByUserID(userID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	// Save replaces the cart's lines and total with the in-memory
	// state. The whole cart document is written, so concurrent saves
	// of the same cart are last-writer-wins.
	Save(cart *models.Cart) error
}
