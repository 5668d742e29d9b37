package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lapak/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// Create creates a new cart with its initial lines. A second cart for the
// same customer violates the unique customer index and is reported as a
// duplicate.
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.Create(cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return fmt.Errorf("cart for customer %s: %w", cart.CustomerID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// orderedLines preloads cart lines in insertion order so batch effects are
// observable in a stable order.
func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("cart_lines.id")
}

// GetAll retrieves every cart with populated customers and lines.
func (r *GORMCartRepository) GetAll() ([]models.Cart, error) {
	var carts []models.Cart
	err := r.db.Preload("Customer").Preload("Lines", orderedLines).Preload("Lines.Product").Find(&carts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all carts: %w", err)
	}
	return carts, nil
}

// GetByID retrieves a cart with its customer and product-populated lines.
func (r *GORMCartRepository) GetByID(id string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Customer").Preload("Lines", orderedLines).Preload("Lines.Product").
		First(&cart, "carts.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart %s: %w", id, err)
	}
	return &cart, nil
}

// GetByCustomer retrieves the single cart of a customer.
func (r *GORMCartRepository) GetByCustomer(customerID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Customer").Preload("Lines", orderedLines).Preload("Lines.Product").
		First(&cart, "carts.customer_id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart of customer %s: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart of customer %s: %w", customerID, err)
	}
	return &cart, nil
}

// AddLine appends a line to the cart. Existing lines for the same product
// are not touched.
func (r *GORMCartRepository) AddLine(cartID string, line *models.CartLine) error {
	line.CartID = cartID
	if err := r.db.Create(line).Error; err != nil {
		return fmt.Errorf("failed to add line to cart %s: %w", cartID, err)
	}
	return nil
}

// RemoveLines deletes every line of the product from the cart.
func (r *GORMCartRepository) RemoveLines(cartID string, productID uint) error {
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartLine{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove lines from cart %s: %w", cartID, err)
	}
	return nil
}

// UpdateLines updates quantity and/or price-at-add on every line of the
// product. Nil fields are left unchanged; no matching line is not an error.
func (r *GORMCartRepository) UpdateLines(cartID string, productID uint, quantity *int, priceAtAdd *float64) error {
	updates := map[string]interface{}{}
	if quantity != nil {
		updates["quantity"] = *quantity
	}
	if priceAtAdd != nil {
		updates["price_at_add"] = *priceAtAdd
	}
	if len(updates) == 0 {
		return nil
	}
	err := r.db.Model(&models.CartLine{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update lines of cart %s: %w", cartID, err)
	}
	return nil
}

// Delete deletes a cart and its lines.
func (r *GORMCartRepository) Delete(id string) error {
	if err := r.db.Where("cart_id = ?", id).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to delete lines of cart %s: %w", id, err)
	}
	res := r.db.Delete(&models.Cart{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
