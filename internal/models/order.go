package models

import "time"

// Order statuses. The progression is Placed -> Paid -> Shipped -> Delivered;
// Cancelled is reachable from any non-terminal status.
const (
	OrderStatusPlaced    = "Placed"
	OrderStatusPaid      = "Paid"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// OrderLine is a single item snapshot within an order. Unlike cart lines,
// order lines are never modified after the order is created.
type OrderLine struct {
	ID              uint      `json:"-" gorm:"primaryKey"`
	OrderID         string    `json:"-" gorm:"index;type:varchar(36)"`
	ProductID       uint      `json:"product_id"`
	Product         *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity        int       `json:"quantity"`
	PriceAtCheckout float64   `json:"price_at_checkout"` // Price at the time of order
	AddedAt         time.Time `json:"added_at"`
}

// Order represents a customer order.
type Order struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string      `json:"customer_id" gorm:"index;type:varchar(36)"`
	Customer   *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Lines      []OrderLine `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	Total      float64     `json:"total"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionOrderStatus reports whether an order may move from one status
// to another. Delivered and Cancelled are terminal.
func CanTransitionOrderStatus(from, to string) bool {
	switch from {
	case OrderStatusPlaced:
		return to == OrderStatusPaid || to == OrderStatusCancelled
	case OrderStatusPaid:
		return to == OrderStatusShipped || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered || to == OrderStatusCancelled
	}
	return false
}
