package services

import (
	"errors"
	"fmt"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// CartService handles business logic related to carts. A customer owns at
// most one cart, created lazily on the first write.
type CartService struct {
	cartRepo repositories.CartRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
	}
}

// CreateCart creates the cart of a customer with its initial lines. A second
// cart for the same customer is rejected by the storage layer.
func (s *CartService) CreateCart(customerID string, items []models.CartItem) (*models.Cart, error) {
	cart := &models.Cart{CustomerID: customerID}
	now := time.Now()
	for _, item := range items {
		quantity := 1
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID:  item.ProductID,
			Quantity:   quantity,
			PriceAtAdd: item.PriceAtAdd,
			AddedAt:    now,
		})
	}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByID(cart.ID)
}

// GetAllCarts retrieves every cart.
func (s *CartService) GetAllCarts() ([]models.Cart, error) {
	return s.cartRepo.GetAll()
}

// GetCartByID retrieves a single cart by its ID.
func (s *CartService) GetCartByID(id string) (*models.Cart, error) {
	return s.cartRepo.GetByID(id)
}

// GetCartOfCustomer retrieves the cart of a customer.
func (s *CartService) GetCartOfCustomer(customerID string) (*models.Cart, error) {
	return s.cartRepo.GetByCustomer(customerID)
}

// DeleteCart removes a cart and its lines.
func (s *CartService) DeleteCart(id string) error {
	return s.cartRepo.Delete(id)
}

// ApplyActions applies an ordered batch of add/remove/update actions to the
// cart and returns it fully populated afterwards.
//
// Each action is issued as an independent storage call, in input order, with
// no transaction around the batch: a failure mid-batch leaves the earlier
// actions applied. Unknown action names are skipped, not rejected.
//
// An add always appends a new line, so repeated adds of the same product
// produce duplicate lines; a remove deletes all of them. Whether add should
// instead upsert is a product decision that has been left as-is.
func (s *CartService) ApplyActions(cart *models.Cart, actions []models.CartAction) (*models.Cart, error) {
	for _, a := range actions {
		var err error
		switch a.Action {
		case models.CartActionAdd:
			quantity := 1
			if a.Quantity != nil {
				quantity = *a.Quantity
			}
			err = s.cartRepo.AddLine(cart.ID, &models.CartLine{
				ProductID:  a.ProductID,
				Quantity:   quantity,
				PriceAtAdd: a.PriceAtAdd,
				AddedAt:    time.Now(),
			})
		case models.CartActionRemove:
			err = s.cartRepo.RemoveLines(cart.ID, a.ProductID)
		case models.CartActionUpdate:
			err = s.cartRepo.UpdateLines(cart.ID, a.ProductID, a.Quantity, a.PriceAtAdd)
		}
		if err != nil {
			return nil, fmt.Errorf("cart action %q on product %d failed: %w", a.Action, a.ProductID, err)
		}
	}

	return s.cartRepo.GetByID(cart.ID)
}

// MutateCartOfCustomer applies an action batch to the cart of a customer,
// creating an empty cart first if the customer has none yet.
func (s *CartService) MutateCartOfCustomer(customerID string, actions []models.CartAction) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByCustomer(customerID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		cart = &models.Cart{CustomerID: customerID}
		if err := s.cartRepo.Create(cart); err != nil {
			return nil, err
		}
	}
	return s.ApplyActions(cart, actions)
}
