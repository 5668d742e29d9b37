package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// EventPublisher publishes order events to the message broker. The RabbitMQ
// client satisfies it; tests substitute a mock.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ErrEmptyCart is returned when a checkout is attempted on a cart without
// lines.
var ErrEmptyCart = errors.New("cart has no items to order")

// ErrInvalidStatusTransition is returned for a status change the order
// lifecycle does not allow.
var ErrInvalidStatusTransition = errors.New("invalid order status transition")

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cartRepo    repositories.CartRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, cartRepo repositories.CartRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		publisher:   publisher,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrdersOfCustomer retrieves every order of a customer.
func (s *OrderService) GetOrdersOfCustomer(customerID string) ([]models.Order, error) {
	return s.orderRepo.GetByCustomer(customerID)
}

// CreateOrderFromCart turns the current cart of the customer into an order.
// Line prices are snapshotted from the products at checkout time; the lines
// are immutable from then on. The cart itself is left in place.
func (s *OrderService) CreateOrderFromCart(customerID string) (*models.Order, error) {
	cart, err := s.cartRepo.GetByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	var total float64
	var lines []models.OrderLine
	now := time.Now()
	for _, line := range cart.Lines {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %d in cart: %w", line.ProductID, err)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("insufficient stock for product %s (requested: %d, available: %d)",
				product.Name, line.Quantity, product.Stock)
		}
		lines = append(lines, models.OrderLine{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtCheckout: product.Price,
			AddedAt:         now,
		})
		total += product.Price * float64(line.Quantity)
	}

	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Lines:      lines,
		Total:      total,
		Status:     models.OrderStatusPlaced,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.CustomerID,
		"status":  order.Status,
		"total":   order.Total,
	})

	return order, nil
}

// UpdateOrderStatus moves an order to a new status, enforcing the
// Placed -> Paid -> Shipped -> Delivered progression; Cancelled is allowed
// from any non-terminal status.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("unknown order status %q: %w", status, ErrInvalidStatusTransition)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !models.CanTransitionOrderStatus(order.Status, status) {
		return fmt.Errorf("order %s cannot move from %s to %s: %w", id, order.Status, status, ErrInvalidStatusTransition)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	s.publishEvent("order.status.updated", map[string]interface{}{
		"orderID": id,
		"status":  status,
	})

	return nil
}

// publishEvent sends an order event to the broker. Publishing is best
// effort; a broker failure does not fail the operation that triggered it.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish("order", routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}
