package repositories

import "lapak/internal/models"

// CartRepository defines the interface for cart data access.
//
// The three line operations are deliberately independent storage calls, one
// per cart action; a mutation batch is not wrapped in a transaction. AddLine
// always appends. RemoveLines deletes every line of the product. UpdateLines
// modifies every line of the product, leaving nil fields untouched, and is a
// no-op when no line matches.
type CartRepository interface {
	Create(cart *models.Cart) error
	GetAll() ([]models.Cart, error)
	GetByID(id string) (*models.Cart, error)
	GetByCustomer(customerID string) (*models.Cart, error)
	AddLine(cartID string, line *models.CartLine) error
	RemoveLines(cartID string, productID uint) error
	UpdateLines(cartID string, productID uint, quantity *int, priceAtAdd *float64) error
	Delete(id string) error
}
