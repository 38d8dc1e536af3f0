package repositories

import (
	"fmt"
	"sync"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts      map[string]models.Cart // keyed by user ID
	nextLineID uint
	mu         sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// GetByUserID returns the cart owned by the given user.
func (r *MockCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
	}
	// Copy the lines so callers cannot mutate stored state.
	cart.Items = append([]models.CartLine(nil), cart.Items...)
	return &cart, nil
}

// Create adds a new cart.
func (r *MockCartRepository) Create(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	stored := *cart
	stored.Items = append([]models.CartLine(nil), cart.Items...)
	r.carts[cart.UserID] = stored
	return nil
}

// Save replaces the stored cart with the given state.
func (r *MockCartRepository) Save(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[cart.UserID]; !ok {
		return fmt.Errorf("cart with ID %s: %w", cart.ID, ErrNotFound)
	}
	stored := *cart
	stored.Items = append([]models.CartLine(nil), cart.Items...)
	for i := range stored.Items {
		r.nextLineID++
		stored.Items[i].ID = r.nextLineID
		stored.Items[i].CartID = stored.ID
	}
	r.carts[cart.UserID] = stored
	return nil
}
