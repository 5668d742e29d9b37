// Package catalog holds the building blocks of catalog queries: the filter
// criteria, the cursor pagination window, and the page result shape. The
// repositories apply these against storage; nothing in this package does I/O.
package catalog

import "gorm.io/gorm"

// Filter is the closed set of optional catalog criteria. A zero-value field
// means the dimension is unconstrained; there is no implicit "match all"
// versus "match none" ambiguity.
type Filter struct {
	SearchTerm  string
	Tags        []string
	CategoryIDs []string
	MinPrice    *float64
	MaxPrice    *float64
	SellerID    string
}

// Empty reports whether no criterion at all is set. The search entry point
// refuses an empty filter; every other entry point treats it as
// unconstrained.
func (f Filter) Empty() bool {
	return f.SearchTerm == "" &&
		len(f.Tags) == 0 &&
		len(f.CategoryIDs) == 0 &&
		f.MinPrice == nil &&
		f.MaxPrice == nil &&
		f.SellerID == ""
}

// Scope returns a GORM scope applying every present criterion except the
// free-text term, which is driver-specific and handled by the repository.
//
// Tag matching is set-intersection-non-empty: the product qualifies when it
// carries at least one of the given tags.
func (f Filter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(f.Tags) > 0 {
			db = db.Where(
				"EXISTS (SELECT 1 FROM product_tags WHERE product_tags.product_id = products.id AND product_tags.tag IN ?)",
				f.Tags,
			)
		}
		if len(f.CategoryIDs) > 0 {
			db = db.Where("products.category_id IN ?", f.CategoryIDs)
		}
		if f.MinPrice != nil {
			db = db.Where("products.price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("products.price <= ?", *f.MaxPrice)
		}
		if f.SellerID != "" {
			db = db.Where("products.seller_id = ?", f.SellerID)
		}
		return db
	}
}
