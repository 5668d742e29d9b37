package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"lapak/internal/authz"
	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. All routes
// require authentication; status changes are admin only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", middleware.RequireRoles(models.RoleAdmin), h.HandleGetAllOrders)
	orderRoutes.Get("/customer", h.HandleGetOwnOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:orderId", h.HandleGetOrder)
	orderRoutes.Patch("/:orderId/status", middleware.RequireRoles(models.RoleAdmin), h.HandleUpdateOrderStatus)
}

// HandleGetAllOrders retrieves all orders. Admin only.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// HandleGetOwnOrders retrieves the orders of the requesting customer.
func (h *OrderHandler) HandleGetOwnOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetOrdersOfCustomer(middleware.ActorID(c))
	if err != nil {
		log.Printf("Error getting customer orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// HandleGetOrder retrieves a single order; owner or admin only.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "failed",
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	if !authz.CanModify(middleware.ActorRole(c), middleware.ActorID(c), order.CustomerID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "failed",
			"message": "You do not own this order.",
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Order retrieved successfully",
		"data":    order,
	})
}

// HandleCreateOrder creates an order from the requesting customer's cart.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	order, err := h.orderService.CreateOrderFromCart(middleware.ActorID(c))
	if err != nil {
		log.Printf("Error creating order: %v", err)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "failed",
				"message": "No cart found for this customer.",
			})
		case errors.Is(err, services.ErrEmptyCart):
			return badRequest(c, err)
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "failed",
				"message": "Could not create order",
				"error":   err.Error(),
			})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Order created successfully",
		"data":    order,
	})
}

// HandleUpdateOrderStatus moves an order to a new status. Admin only.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	if updateData.Status == "" {
		return badRequest(c, errors.New("status is required for order status update"))
	}

	if err := h.orderService.UpdateOrderStatus(orderID, updateData.Status); err != nil {
		log.Printf("Error updating status of order %s: %v", orderID, err)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "failed",
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		case errors.Is(err, services.ErrInvalidStatusTransition):
			return badRequest(c, err)
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "failed",
				"message": "Could not update order status",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}
