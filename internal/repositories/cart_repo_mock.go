package repositories

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"lapak/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts      map[string]models.Cart
	nextLineID uint
	mu         sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts:      make(map[string]models.Cart),
		nextLineID: 1,
	}
}

// Create adds a new cart, rejecting a second cart for the same customer.
func (r *MockCartRepository) Create(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.carts {
		if c.CustomerID == cart.CustomerID {
			return fmt.Errorf("cart for customer %s: %w", cart.CustomerID, ErrDuplicate)
		}
	}
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	for i := range cart.Lines {
		if cart.Lines[i].ID == 0 {
			cart.Lines[i].ID = r.nextLineID
			r.nextLineID++
		}
		cart.Lines[i].CartID = cart.ID
	}
	r.carts[cart.ID] = *cart
	return nil
}

// GetAll returns every cart.
func (r *MockCartRepository) GetAll() ([]models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	carts := make([]models.Cart, 0, len(r.carts))
	for _, c := range r.carts {
		carts = append(carts, c)
	}
	return carts, nil
}

// GetByID returns a cart by its ID.
func (r *MockCartRepository) GetByID(id string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[id]
	if !ok {
		return nil, fmt.Errorf("cart %s: %w", id, ErrNotFound)
	}
	return &cart, nil
}

// GetByCustomer returns the cart of a customer.
func (r *MockCartRepository) GetByCustomer(customerID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.carts {
		if c.CustomerID == customerID {
			cart := c
			return &cart, nil
		}
	}
	return nil, fmt.Errorf("cart of customer %s: %w", customerID, ErrNotFound)
}

// AddLine appends a line to the cart.
func (r *MockCartRepository) AddLine(cartID string, line *models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
	}
	line.ID = r.nextLineID
	r.nextLineID++
	line.CartID = cartID
	cart.Lines = append(cart.Lines, *line)
	r.carts[cartID] = cart
	return nil
}

// RemoveLines deletes every line of the product from the cart.
func (r *MockCartRepository) RemoveLines(cartID string, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
	}
	// A fresh slice: filtering in place would rewrite the backing array
	// that previously returned cart copies still alias.
	kept := make([]models.CartLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	cart.Lines = kept
	r.carts[cartID] = cart
	return nil
}

// UpdateLines updates every line of the product; nil fields stay unchanged.
func (r *MockCartRepository) UpdateLines(cartID string, productID uint, quantity *int, priceAtAdd *float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
	}
	lines := make([]models.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	for i := range lines {
		if lines[i].ProductID != productID {
			continue
		}
		if quantity != nil {
			lines[i].Quantity = *quantity
		}
		if priceAtAdd != nil {
			price := *priceAtAdd
			lines[i].PriceAtAdd = &price
		}
	}
	cart.Lines = lines
	r.carts[cartID] = cart
	return nil
}

// Delete removes a cart.
func (r *MockCartRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[id]; !ok {
		return fmt.Errorf("cart %s for deletion: %w", id, ErrNotFound)
	}
	delete(r.carts, id)
	return nil
}
