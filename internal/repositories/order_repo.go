package repositories

import "lapak/internal/models"

// OrderRepository defines the interface for order data access. Order lines
// are written once at creation and never modified; only the status changes
// afterwards.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByCustomer(customerID string) ([]models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status string) error
}
