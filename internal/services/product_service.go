package services

import (
	"errors"
	"fmt"

	"lapak/internal/authz"
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// ErrForbidden is returned when an actor is neither an admin nor the owner
// of the product they try to mutate.
var ErrForbidden = errors.New("not allowed to modify this product")

// ProductUpdate carries the changed fields of a product update; nil fields
// are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	CategoryID  *string
	Tags        []string
	Photos      []models.Photo
}

// ProductService handles the catalog write path: creation, update and
// deletion of products, with category resolution and ownership checks.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// CreateProduct creates a new product after checking that its category
// exists.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("cannot create product: %w", err)
		}
		return err
	}
	return s.productRepo.Create(product)
}

// UpdateProduct applies the non-nil fields of the update to the product.
// Only the owning seller or an admin may update; a changed category must
// exist.
func (s *ProductService) UpdateProduct(id uint, actorRole, actorID string, update ProductUpdate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !authz.CanModify(actorRole, actorID, product.SellerID) {
		return nil, ErrForbidden
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
	}
	if update.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*update.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("cannot update product: %w", err)
			}
			return nil, err
		}
		product.CategoryID = *update.CategoryID
		product.Category = nil
	}
	if update.Tags != nil {
		tags := make([]models.ProductTag, 0, len(update.Tags))
		for _, t := range update.Tags {
			tags = append(tags, models.ProductTag{ProductID: product.ID, Tag: t})
		}
		product.Tags = tags
	}
	if update.Photos != nil {
		product.Photos = update.Photos
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(id)
}

// DeleteProduct deletes a product, enforcing the same ownership rule as
// UpdateProduct.
func (s *ProductService) DeleteProduct(id uint, actorRole, actorID string) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !authz.CanModify(actorRole, actorID, product.SellerID) {
		return ErrForbidden
	}
	return s.productRepo.Delete(id)
}
