package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"lapak/internal/catalog"
	"lapak/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. Relevance for free-text queries is a simple
// term-occurrence count over name and description; it stands in for the
// database's full-text score while preserving the score/recency/id
// ordering contract.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

func matchesFilter(p models.Product, f catalog.Filter) bool {
	if f.SearchTerm != "" && relevance(p, f.SearchTerm) == 0 {
		return false
	}
	if len(f.Tags) > 0 {
		found := false
		for _, want := range f.Tags {
			for _, have := range p.Tags {
				if have.Tag == want {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if len(f.CategoryIDs) > 0 {
		found := false
		for _, id := range f.CategoryIDs {
			if p.CategoryID == id {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.SellerID != "" && p.SellerID != f.SellerID {
		return false
	}
	return true
}

func relevance(p models.Product, term string) int {
	text := strings.ToLower(p.Name + " " + p.Description)
	score := 0
	for _, word := range strings.Fields(strings.ToLower(term)) {
		score += strings.Count(text, word)
	}
	return score
}

// Query returns one pagination window of matching products.
func (r *MockProductRepository) Query(filter catalog.Filter, page catalog.Page) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []models.Product
	for _, p := range r.products {
		if page.Cursor != 0 && p.ID >= page.Cursor {
			continue
		}
		if matchesFilter(p, filter) {
			matches = append(matches, p)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if filter.SearchTerm != "" {
			ra, rb := relevance(a, filter.SearchTerm), relevance(b, filter.SearchTerm)
			if ra != rb {
				return ra > rb
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID > b.ID
	})

	if len(matches) > page.FetchLimit() {
		matches = matches[:page.FetchLimit()]
	}
	return matches, nil
}

// Count counts all matches of the filter, ignoring any cursor.
func (r *MockProductRepository) Count(filter catalog.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, p := range r.products {
		if matchesFilter(p, filter) {
			total++
		}
	}
	return total, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product, assigning the next identifier.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product %d for update: %w", product.ID, ErrNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product %d for deletion: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}
