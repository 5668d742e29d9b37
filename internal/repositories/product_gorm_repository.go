package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lapak/internal/catalog"
	"lapak/internal/models"
)

// Full-text relevance is computed by PostgreSQL; the repository only asks
// for scored results and orders by the score. SQLite deployments (tests)
// fall back to a LIKE match with no score, keeping the recency/id ordering.
const (
	pgTextMatch = "to_tsvector('english', products.name || ' ' || products.description) @@ plainto_tsquery('english', ?)"
	pgTextRank  = "products.*, ts_rank(to_tsvector('english', products.name || ' ' || products.description), plainto_tsquery('english', ?)) AS search_rank"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func (r *GORMProductRepository) isPostgres() bool {
	return r.db.Dialector.Name() == "postgres"
}

// filtered applies every filter criterion, including the free-text match.
func (r *GORMProductRepository) filtered(filter catalog.Filter) *gorm.DB {
	q := r.db.Model(&models.Product{}).Scopes(filter.Scope())
	if filter.SearchTerm != "" {
		if r.isPostgres() {
			q = q.Where(pgTextMatch, filter.SearchTerm)
		} else {
			pattern := "%" + filter.SearchTerm + "%"
			q = q.Where("products.name LIKE ? OR products.description LIKE ?", pattern, pattern)
		}
	}
	return q
}

// Query fetches one pagination window of products.
func (r *GORMProductRepository) Query(filter catalog.Filter, page catalog.Page) ([]models.Product, error) {
	q := r.filtered(filter)

	// Relevance first when a term is present, then recency; identifier
	// descending is always the final tie-break so the cursor inequality
	// stays consistent with the page order.
	if filter.SearchTerm != "" {
		if r.isPostgres() {
			q = q.Select(pgTextRank, filter.SearchTerm).Order("search_rank DESC")
		}
		q = q.Order("products.created_at DESC")
	}
	q = q.Order("products.id DESC")

	if page.Cursor != 0 {
		q = q.Where("products.id < ?", page.Cursor)
	}

	var products []models.Product
	err := q.Limit(page.FetchLimit()).
		Preload("Tags").
		Preload("Photos").
		Preload("Category").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}

// Count counts all products matching the filter, ignoring any cursor.
func (r *GORMProductRepository) Count(filter catalog.Filter) (int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// GetByID retrieves a single product with its category, tags and photos.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Tags").Preload("Photos").Preload("Category").
		First(&product, "products.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product together with its tags and photos.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product. The tag and photo sets are replaced
// wholesale: saving through the associations would only upsert the rows
// still present in the slices and leave removed ones behind, where they
// would keep matching tag filters.
func (r *GORMProductRepository) Update(product *models.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Omit("Tags", "Photos").Save(product)
		if res.Error != nil {
			return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product %d for update: %w", product.ID, ErrNotFound)
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductTag{}).Error; err != nil {
			return fmt.Errorf("failed to clear tags of product %d: %w", product.ID, err)
		}
		if len(product.Tags) > 0 {
			for i := range product.Tags {
				product.Tags[i].ProductID = product.ID
			}
			if err := tx.Create(&product.Tags).Error; err != nil {
				return fmt.Errorf("failed to write tags of product %d: %w", product.ID, err)
			}
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Photo{}).Error; err != nil {
			return fmt.Errorf("failed to clear photos of product %d: %w", product.ID, err)
		}
		if len(product.Photos) > 0 {
			for i := range product.Photos {
				product.Photos[i].ProductID = product.ID
			}
			if err := tx.Create(&product.Photos).Error; err != nil {
				return fmt.Errorf("failed to write photos of product %d: %w", product.ID, err)
			}
		}
		return nil
	})
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Select("Tags", "Photos").Delete(&models.Product{ID: id})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d for deletion: %w", id, ErrNotFound)
	}
	return nil
}
