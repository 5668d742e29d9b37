package models

import "time"

// Product represents a catalog item offered by a seller.
// The primary key is an auto-increment integer so identifiers are
// monotonically increasing at creation time; cursor pagination relies on
// that ordering.
type Product struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" validate:"required,min=3,max=100"`
	Description string       `json:"description" validate:"omitempty,max=500"`
	Price       float64      `json:"price" validate:"gte=0"`
	Stock       int          `json:"stock" validate:"gte=0"`
	CategoryID  string       `json:"category_id" gorm:"type:varchar(36);index" validate:"required,uuid"`
	Category    *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	SellerID    string       `json:"seller_id" gorm:"type:varchar(36);index" validate:"required,uuid"`
	Tags        []ProductTag `json:"tags" gorm:"constraint:OnDelete:CASCADE"`
	Photos      []Photo      `json:"photos" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProductTag is one tag attached to a product. Tags live in their own table
// so tag filters can be expressed as an EXISTS condition on both the
// PostgreSQL and SQLite drivers.
type ProductTag struct {
	ProductID uint   `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Tag       string `json:"tag" gorm:"primaryKey;type:varchar(50)"`
}

// Photo is one stored image of a product.
type Photo struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	ProductID uint   `json:"-" gorm:"index"`
	PublicID  string `json:"public_id" gorm:"type:varchar(100)"`
	URL       string `json:"url" gorm:"type:varchar(500)"`
}

// TagNames returns the plain tag strings of the product.
func (p *Product) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Tag)
	}
	return names
}
