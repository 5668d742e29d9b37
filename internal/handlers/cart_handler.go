package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lapak/internal/authz"
	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
)

// CartHandler handles HTTP requests for carts. Every route requires an
// authenticated customer; cross-customer access is limited to admins.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/", h.HandleCreateCart)
	cartRoutes.Get("/", middleware.RequireRoles(models.RoleAdmin), h.HandleGetAllCarts)
	cartRoutes.Get("/customer", h.HandleGetOwnCart)
	cartRoutes.Patch("/customer", h.HandleMutateOwnCart)
	cartRoutes.Get("/:cartId", h.HandleGetCart)
	cartRoutes.Patch("/:cartId", h.HandleMutateCart)
	cartRoutes.Delete("/:cartId", h.HandleDeleteCart)
}

// CartMutationRequest is the action batch applied to a cart.
type CartMutationRequest struct {
	Items []models.CartAction `json:"items" validate:"required,dive"`
}

// CartCreateRequest carries the initial items of a new cart. Items have no
// action field; each one becomes a line.
type CartCreateRequest struct {
	Items []models.CartItem `json:"items" validate:"required,dive"`
}

// HandleCreateCart creates the cart of the requesting customer with its
// initial items.
func (h *CartHandler) HandleCreateCart(c *fiber.Ctx) error {
	var req CartCreateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create cart body: %v", err)
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	cart, err := h.cartService.CreateCart(middleware.ActorID(c), req.Items)
	if err != nil {
		log.Printf("Error creating cart: %v", err)
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"status":  "failed",
				"message": "Duplicate cart entry detected.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not create cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Cart created successfully",
		"data":    cart,
	})
}

// HandleGetAllCarts retrieves every cart. Admin only.
func (h *CartHandler) HandleGetAllCarts(c *fiber.Ctx) error {
	carts, err := h.cartService.GetAllCarts()
	if err != nil {
		log.Printf("Error getting all carts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not retrieve carts",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Carts retrieved successfully",
		"data":    carts,
	})
}

// HandleGetOwnCart retrieves the cart of the requesting customer.
func (h *CartHandler) HandleGetOwnCart(c *fiber.Ctx) error {
	cart, err := h.cartService.GetCartOfCustomer(middleware.ActorID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "failed",
				"message": "No cart found for this customer.",
			})
		}
		log.Printf("Error getting own cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Cart retrieved successfully",
		"data":    cart,
	})
}

// HandleMutateOwnCart applies an action batch to the cart of the requesting
// customer, creating an empty cart first if they have none yet.
func (h *CartHandler) HandleMutateOwnCart(c *fiber.Ctx) error {
	var req CartMutationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart mutation body: %v", err)
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	cart, err := h.cartService.MutateCartOfCustomer(middleware.ActorID(c), req.Items)
	if err != nil {
		log.Printf("Error mutating own cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not update cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Cart updated successfully",
		"data":    cart,
	})
}

// HandleGetCart retrieves a cart by its ID; owner or admin only.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, ok, err := h.loadOwnedCart(c)
	if !ok {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Cart retrieved successfully",
		"data":    cart,
	})
}

// HandleMutateCart applies an ordered add/remove/update batch to the cart
// and returns the fully populated result. Actions are applied strictly in
// input order with no batch atomicity; unknown actions are ignored.
func (h *CartHandler) HandleMutateCart(c *fiber.Ctx) error {
	cart, ok, err := h.loadOwnedCart(c)
	if !ok {
		return err
	}

	var req CartMutationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart mutation body: %v", err)
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	updated, err := h.cartService.ApplyActions(cart, req.Items)
	if err != nil {
		log.Printf("Error mutating cart %s: %v", cart.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not update cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Cart updated successfully",
		"data":    updated,
	})
}

// HandleDeleteCart removes a cart; owner or admin only.
func (h *CartHandler) HandleDeleteCart(c *fiber.Ctx) error {
	cart, ok, err := h.loadOwnedCart(c)
	if !ok {
		return err
	}
	if err := h.cartService.DeleteCart(cart.ID); err != nil {
		log.Printf("Error deleting cart %s: %v", cart.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not delete cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Cart deleted successfully",
	})
}

// loadOwnedCart resolves the cartId path parameter and enforces the
// ownership predicate. When ok is false the response has already been
// written.
func (h *CartHandler) loadOwnedCart(c *fiber.Ctx) (*models.Cart, bool, error) {
	cartID := c.Params("cartId")
	if _, err := uuid.Parse(cartID); err != nil {
		return nil, false, badRequest(c, fmt.Errorf("not valid cart ID %q", cartID))
	}

	cart, err := h.cartService.GetCartByID(cartID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "failed",
				"message": "No cart found with such ID.",
			})
		}
		log.Printf("Error getting cart %s: %v", cartID, err)
		return nil, false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}

	if !authz.CanModify(middleware.ActorRole(c), middleware.ActorID(c), cart.CustomerID) {
		return nil, false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "failed",
			"message": "You do not own this cart.",
		})
	}
	return cart, true, nil
}
