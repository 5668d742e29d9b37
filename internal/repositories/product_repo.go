package repositories

import (
	"lapak/internal/catalog"
	"lapak/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Query fetches one pagination window: up to page.FetchLimit() products
// matching the filter, ordered by relevance (when the filter carries a
// search term), then recency, then identifier descending, and constrained
// to identifiers below the cursor when one is set. Count counts every match
// of the filter with no cursor applied, so totals are stable across pages.
type ProductRepository interface {
	Query(filter catalog.Filter, page catalog.Page) ([]models.Product, error)
	Count(filter catalog.Filter) (int64, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}
