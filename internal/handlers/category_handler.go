package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
	validate        *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the category routes with the Fiber app. Reads
// are public; mutations are admin only.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetAllCategories)
	categoryRoutes.Get("/:categoryId", h.HandleGetCategory)
	categoryRoutes.Get("/:categoryId/products/count", h.HandleCountProducts)
	categoryRoutes.Post("/", auth, middleware.RequireRoles(models.RoleAdmin), h.HandleCreateCategory)
	categoryRoutes.Patch("/:categoryId", auth, middleware.RequireRoles(models.RoleAdmin), h.HandleUpdateCategory)
	categoryRoutes.Delete("/:categoryId", auth, middleware.RequireRoles(models.RoleAdmin), h.HandleDeleteCategory)
}

// HandleGetAllCategories retrieves all categories.
func (h *CategoryHandler) HandleGetAllCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.GetAllCategories()
	if err != nil {
		log.Printf("Error getting all categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// HandleGetCategory retrieves a single category by its ID.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	categoryID := c.Params("categoryId")
	category, err := h.categoryService.GetCategoryByID(categoryID)
	if err != nil {
		return h.categoryError(c, categoryID, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Category retrieved successfully",
		"data":    category,
	})
}

// HandleCountProducts returns the number of products in a category.
func (h *CategoryHandler) HandleCountProducts(c *fiber.Ctx) error {
	categoryID := c.Params("categoryId")
	if _, err := h.categoryService.GetCategoryByID(categoryID); err != nil {
		return h.categoryError(c, categoryID, err)
	}
	count, err := h.categoryService.CountProducts(categoryID)
	if err != nil {
		return h.categoryError(c, categoryID, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Product count retrieved successfully",
		"data":    fiber.Map{"count": count},
	})
}

// HandleCreateCategory creates a new category with a unique title.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		log.Printf("Error parsing create category body: %v", err)
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	category.ID = ""
	if err := h.validate.Struct(category); err != nil {
		return validationFailed(c, err)
	}

	if err := h.categoryService.CreateCategory(&category); err != nil {
		log.Printf("Error creating category: %v", err)
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"status":  "failed",
				"message": fmt.Sprintf("Category title %q is already taken.", category.Title),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not create category",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Category created successfully",
		"data":    category,
	})
}

// HandleUpdateCategory updates the title and/or description of a category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	categoryID := c.Params("categoryId")
	category, err := h.categoryService.GetCategoryByID(categoryID)
	if err != nil {
		return h.categoryError(c, categoryID, err)
	}

	var req struct {
		Title       *string `json:"title" validate:"omitempty,min=2,max=100"`
		Description *string `json:"description" validate:"omitempty,max=500"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update category body: %v", err)
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	if req.Title != nil {
		category.Title = *req.Title
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := h.categoryService.UpdateCategory(category); err != nil {
		return h.categoryError(c, categoryID, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Category updated successfully",
		"data":    category,
	})
}

// HandleDeleteCategory deletes a category by its ID.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	categoryID := c.Params("categoryId")
	if err := h.categoryService.DeleteCategory(categoryID); err != nil {
		return h.categoryError(c, categoryID, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Category deleted successfully",
	})
}

func (h *CategoryHandler) categoryError(c *fiber.Ctx, categoryID string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "failed",
			"message": fmt.Sprintf("Category with ID %s not found", categoryID),
		})
	}
	log.Printf("Category error for %s: %v", categoryID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "failed",
		"message": "Category operation failed",
		"error":   err.Error(),
	})
}
