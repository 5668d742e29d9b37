package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lapak/internal/catalog"
	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
)

// ProductHandler handles HTTP requests for the catalog: cursor-paginated
// reads plus role-guarded product mutations.
type ProductHandler struct {
	catalogService *services.CatalogService
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalogService *services.CatalogService, productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Reads are
// public; mutations require a Seller or Admin token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleQueryStore)
	productRoutes.Get("/search", h.HandleSearch)
	productRoutes.Get("/category/:categoryId", h.HandleQueryByCategory)
	productRoutes.Get("/seller/:sellerId", h.HandleQueryBySeller)
	productRoutes.Post("/", auth, middleware.RequireRoles(models.RoleSeller, models.RoleAdmin), h.HandleCreateProduct)
	productRoutes.Get("/:productId", h.HandleGetProduct)
	productRoutes.Patch("/:productId", auth, middleware.RequireRoles(models.RoleSeller, models.RoleAdmin), h.HandleUpdateProduct)
	productRoutes.Delete("/:productId", auth, middleware.RequireRoles(models.RoleSeller, models.RoleAdmin), h.HandleDeleteProduct)
}

// parsePage reads the limit and cursor query parameters. An absent limit
// defaults to catalog.DefaultLimit; a malformed cursor or a limit below 1 is
// a client error.
func parsePage(c *fiber.Ctx) (catalog.Page, error) {
	limit := c.QueryInt("limit", catalog.DefaultLimit)
	if limit < 1 {
		return catalog.Page{}, catalog.ErrInvalidLimit
	}
	cursor, err := catalog.ParseCursor(c.Query("cursor"))
	if err != nil {
		return catalog.Page{}, err
	}
	return catalog.Page{Limit: limit, Cursor: cursor}, nil
}

// parsePriceBound reads an optional float query parameter.
func parsePriceBound(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed %s %q", name, raw)
	}
	return &value, nil
}

func queryMulti(c *fiber.Ctx, name string) []string {
	var values []string
	for _, v := range c.Context().QueryArgs().PeekMulti(name) {
		if len(v) > 0 {
			values = append(values, string(v))
		}
	}
	return values
}

func pageEnvelope(result *catalog.Result, totalField string) fiber.Map {
	return fiber.Map{
		"status":  "success",
		"message": "Products retrieved successfully",
		"data": fiber.Map{
			"products":   result.Products,
			totalField:   result.Total,
			"nextCursor": result.NextCursor,
		},
	}
}

// HandleQueryStore returns one page of the whole catalog.
func (h *ProductHandler) HandleQueryStore(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, err)
	}
	result, err := h.catalogService.QueryStore(page)
	if err != nil {
		return h.catalogError(c, err)
	}
	return c.JSON(pageEnvelope(result, "totalProductsCount"))
}

// HandleQueryByCategory returns one page of the products of a category.
func (h *ProductHandler) HandleQueryByCategory(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, err)
	}
	result, err := h.catalogService.QueryByCategory(c.Params("categoryId"), page)
	if err != nil {
		return h.catalogError(c, err)
	}
	return c.JSON(pageEnvelope(result, "totalProductsCount"))
}

// HandleQueryBySeller returns one page of the products of a seller.
func (h *ProductHandler) HandleQueryBySeller(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, err)
	}
	result, err := h.catalogService.QueryBySeller(c.Params("sellerId"), page)
	if err != nil {
		return h.catalogError(c, err)
	}
	return c.JSON(pageEnvelope(result, "totalProductsCount"))
}

// HandleSearch runs a catalog search. At least one criterion or a search
// term is required; an empty filter is refused, not treated as match-all.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, err)
	}
	minPrice, err := parsePriceBound(c, "minPrice")
	if err != nil {
		return badRequest(c, err)
	}
	maxPrice, err := parsePriceBound(c, "maxPrice")
	if err != nil {
		return badRequest(c, err)
	}

	filter := catalog.Filter{
		SearchTerm:  c.Query("searchTerm"),
		Tags:        queryMulti(c, "tags"),
		CategoryIDs: queryMulti(c, "categoryIds"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
	}
	if parent := c.Query("parentCategoryId"); parent != "" {
		filter.CategoryIDs = append(filter.CategoryIDs, parent)
	}

	result, err := h.catalogService.Search(filter, page)
	if err != nil {
		return h.catalogError(c, err)
	}
	return c.JSON(pageEnvelope(result, "totalProductsResults"))
}

func (h *ProductHandler) catalogError(c *fiber.Ctx, err error) error {
	log.Printf("Catalog query error: %v", err)
	if errors.Is(err, catalog.ErrInvalidLimit) || errors.Is(err, services.ErrNoSearchCriteria) {
		return badRequest(c, err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "failed",
		"message": "Could not retrieve products",
		"error":   err.Error(),
	})
}

// HandleGetProduct retrieves a single product with its category populated.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return badRequest(c, err)
	}
	product, err := h.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "failed",
				"message": fmt.Sprintf("Product with ID %d not found", id),
			})
		}
		log.Printf("Error getting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required,min=3,max=100"`
	Description string         `json:"description" validate:"omitempty,max=500"`
	Price       float64        `json:"price" validate:"gte=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	CategoryID  string         `json:"category_id" validate:"required,uuid"`
	Tags        []string       `json:"tags"`
	Photos      []models.Photo `json:"photos"`
}

// HandleCreateProduct creates a new product owned by the requesting seller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		SellerID:    middleware.ActorID(c),
		Photos:      req.Photos,
	}
	for _, t := range req.Tags {
		product.Tags = append(product.Tags, models.ProductTag{Tag: t})
	}

	if err := h.productService.CreateProduct(product); err != nil {
		log.Printf("Error creating product: %v", err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "failed",
				"message": "No Category with such ID.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "successfully created the product.",
		"data":    product,
	})
}

// UpdateProductRequest represents the request body for updating a product.
// Omitted fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string        `json:"description" validate:"omitempty,max=500"`
	Price       *float64       `json:"price" validate:"omitempty,gte=0"`
	Stock       *int           `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *string        `json:"category_id" validate:"omitempty,uuid"`
	Tags        []string       `json:"tags"`
	Photos      []models.Photo `json:"photos"`
}

// HandleUpdateProduct updates a product; only its owning seller or an admin
// may do so.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return badRequest(c, err)
	}
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.productService.UpdateProduct(id, middleware.ActorRole(c), middleware.ActorID(c), services.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		Photos:      req.Photos,
	})
	if err != nil {
		return h.productMutationError(c, id, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "successfully updated the product.",
		"data":    product,
	})
}

// HandleDeleteProduct deletes a product under the same ownership rule as
// updates.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return badRequest(c, err)
	}
	if err := h.productService.DeleteProduct(id, middleware.ActorRole(c), middleware.ActorID(c)); err != nil {
		return h.productMutationError(c, id, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "successfully deleted the product.",
	})
}

func (h *ProductHandler) productMutationError(c *fiber.Ctx, id uint, err error) error {
	log.Printf("Error mutating product %d: %v", id, err)
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "failed",
			"message": "You do not own this product.",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "failed",
			"message": fmt.Sprintf("Product with ID %d not found", id),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "failed",
			"message": "Could not modify product",
			"error":   err.Error(),
		})
	}
}

func parseProductID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("productId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("not valid product ID %q", raw)
	}
	return uint(id), nil
}
