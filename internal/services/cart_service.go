package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/rabbitmq"

	"github.com/google/uuid"
)

// CartLineResponse is the projected shape of one cart line: the line
// plus a snapshot of the product it references, resolved at response
// time so price and name are never stale.
type CartLineResponse struct {
	ProductID string         `json:"productId"`
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	Price     int64          `json:"price"`
	Name      string         `json:"name"`
}

// CartResponse is the projected cart returned to clients.
type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total int64              `json:"total"`
}

// emptyCartResponse is what callers see when a user has no cart yet.
func emptyCartResponse() *CartResponse {
	return &CartResponse{Items: []CartLineResponse{}, Total: 0}
}

// CartService owns per-user cart state and keeps it consistent with
// the live catalog. Totals are always recomputed from current product
// prices, and lines whose product was deleted are pruned on every
// read and write (self-healing).
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client
}

// NewCartService creates a new CartService. mqClient may be nil;
// events are then skipped.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// AddItem puts quantity units of a product into the user's cart,
// creating the cart on first use. Adding a product already in the
// cart increments its line instead of appending a duplicate.
func (s *CartService) AddItem(userID, productID string, quantity int) (*CartResponse, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	// The product must exist right now; carts never hold references
	// that were dangling at insertion time.
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		cart = &models.Cart{ID: uuid.New().String(), UserID: userID}
		if err := s.cartRepo.Create(cart); err != nil {
			return nil, err
		}
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartLine{ProductID: productID, Quantity: quantity})
	}

	return s.persistAndProject(cart)
}

// GetCart returns the user's projected cart. A user without a cart
// gets an empty cart, not an error. If any line's product has been
// deleted, the pruned cart is persisted before returning.
func (s *CartService) GetCart(userID string) (*CartResponse, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return emptyCartResponse(), nil
		}
		return nil, err
	}

	resp, pruned, err := s.reconcile(cart)
	if err != nil {
		return nil, err
	}
	if pruned {
		if err := s.cartRepo.Save(cart); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// UpdateQuantity overwrites the quantity of an existing cart line.
// Quantities below 1 are rejected; use RemoveItem to drop a line.
func (s *CartService) UpdateQuantity(userID, productID string, quantity int) (*CartResponse, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("product %s not in cart: %w", productID, ErrNotFound)
	}

	return s.persistAndProject(cart)
}

// RemoveItem deletes one line from the user's cart.
func (s *CartService) RemoveItem(userID, productID string) (*CartResponse, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("product %s not in cart: %w", productID, ErrNotFound)
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	return s.persistAndProject(cart)
}

// ClearCart empties the user's cart. The cart entity itself survives
// with no lines and a zero total.
func (s *CartService) ClearCart(userID string) (*CartResponse, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	cart.Items = nil
	cart.Total = 0
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	s.publishCartUpdated(cart)
	return emptyCartResponse(), nil
}

// Cleanup prunes lines whose product no longer exists and recomputes
// the total. It is idempotent and always succeeds: a user without a
// cart gets the empty shape.
func (s *CartService) Cleanup(userID string) (*CartResponse, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return emptyCartResponse(), nil
		}
		return nil, err
	}

	resp, pruned, err := s.reconcile(cart)
	if err != nil {
		return nil, err
	}
	if pruned {
		log.Printf("Cleaning up cart %s: removed dangling lines", cart.ID)
		if err := s.cartRepo.Save(cart); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// persistAndProject is the tail of every mutating operation:
// reconcile against the live catalog, persist, publish, project.
func (s *CartService) persistAndProject(cart *models.Cart) (*CartResponse, error) {
	resp, _, err := s.reconcile(cart)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	s.publishCartUpdated(cart)
	return resp, nil
}

// reconcile resolves every line's product, silently drops lines whose
// product no longer exists, and recomputes the total from scratch
// over the survivors. It mutates cart in place and reports whether
// anything was pruned; the caller decides whether to persist.
func (s *CartService) reconcile(cart *models.Cart) (*CartResponse, bool, error) {
	survivors := make([]models.CartLine, 0, len(cart.Items))
	items := make([]CartLineResponse, 0, len(cart.Items))
	var total int64

	for _, line := range cart.Items {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue // product deleted out from under the cart; prune the line
			}
			return nil, false, err
		}
		survivors = append(survivors, line)
		total += product.Price * int64(line.Quantity)
		items = append(items, CartLineResponse{
			ProductID: line.ProductID,
			Product:   *product,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Name:      product.Name,
		})
	}

	pruned := len(survivors) != len(cart.Items)
	cart.Items = survivors
	cart.Total = total

	return &CartResponse{Items: items, Total: total}, pruned, nil
}

// publishCartUpdated emits a cart.updated event after a successful
// mutation. Publish failures are logged, never surfaced.
func (s *CartService) publishCartUpdated(cart *models.Cart) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"userID": cart.UserID,
		"items":  len(cart.Items),
		"total":  cart.Total,
	})
	if err != nil {
		log.Printf("Failed to marshal cart.updated event for user %s: %v", cart.UserID, err)
		return
	}
	if err := s.mqClient.Publish("cart.updated", body); err != nil {
		log.Printf("Warning: failed to publish cart.updated event for user %s: %v", cart.UserID, err)
	}
}
