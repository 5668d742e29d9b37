package services

import (
	"errors"
	"fmt"

	"lapak/internal/catalog"
	"lapak/internal/repositories"
)

// ErrNoSearchCriteria is returned when a search names neither a term nor any
// filter. It is a refusal, distinguishable from a query with no matches.
var ErrNoSearchCriteria = errors.New("search requires at least one criterion or a search term")

// CatalogService handles the catalog read path: store-wide, per-category and
// per-seller listings plus free-text search, all cursor-paginated. It never
// mutates storage; an empty page is a result, not an error.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// QueryStore returns one page of the whole catalog.
func (s *CatalogService) QueryStore(page catalog.Page) (*catalog.Result, error) {
	return s.run(catalog.Filter{}, page)
}

// QueryByCategory returns one page of the products of a category.
func (s *CatalogService) QueryByCategory(categoryID string, page catalog.Page) (*catalog.Result, error) {
	return s.run(catalog.Filter{CategoryIDs: []string{categoryID}}, page)
}

// QueryBySeller returns one page of the products of a seller.
func (s *CatalogService) QueryBySeller(sellerID string, page catalog.Page) (*catalog.Result, error) {
	return s.run(catalog.Filter{SellerID: sellerID}, page)
}

// Search returns one page of products matching the given criteria, ordered
// by relevance when a term is present. A filter with no criteria at all is
// refused with ErrNoSearchCriteria.
func (s *CatalogService) Search(filter catalog.Filter, page catalog.Page) (*catalog.Result, error) {
	if filter.Empty() {
		return nil, ErrNoSearchCriteria
	}
	return s.run(filter, page)
}

// run validates the page, fetches one window of limit+1 records, trims it to
// the page and computes the cursor-independent total.
func (s *CatalogService) run(filter catalog.Filter, page catalog.Page) (*catalog.Result, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	window, err := s.repo.Query(filter, page)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}

	total, err := s.repo.Count(filter)
	if err != nil {
		return nil, fmt.Errorf("catalog count failed: %w", err)
	}

	products, nextCursor := catalog.ResolvePage(window, page.Limit)
	return &catalog.Result{
		Products:   products,
		Total:      total,
		NextCursor: nextCursor,
	}, nil
}
