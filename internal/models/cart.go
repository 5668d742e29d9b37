package models

import "time"

// Cart action names accepted by the cart mutation endpoint. Anything else
// in an action batch is ignored.
const (
	CartActionAdd    = "add"
	CartActionRemove = "remove"
	CartActionUpdate = "update"
)

// Cart holds the shopping cart of one customer. There is at most one cart
// per customer, enforced by the unique index on CustomerID.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string     `json:"customer_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required,uuid"`
	Customer   *User      `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Lines      []CartLine `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartLine is one product entry within a cart.
type CartLine struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	CartID     string    `json:"-" gorm:"index;type:varchar(36)"`
	ProductID  uint      `json:"product_id"`
	Product    *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   int       `json:"quantity" validate:"gt=0"`
	PriceAtAdd *float64  `json:"price_at_add,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

// CartItem is one initial line of a cart creation request. Unlike a
// mutation batch entry it carries no action; every item becomes a line.
type CartItem struct {
	ProductID  uint     `json:"product" validate:"required"`
	Quantity   *int     `json:"quantity" validate:"omitempty,gt=0"`
	PriceAtAdd *float64 `json:"priceAtAdd" validate:"omitempty,gte=0"`
}

// CartAction is one entry of a cart mutation batch.
type CartAction struct {
	ProductID  uint     `json:"product" validate:"required"`
	Quantity   *int     `json:"quantity" validate:"omitempty,gt=0"`
	PriceAtAdd *float64 `json:"priceAtAdd" validate:"omitempty,gte=0"`
	Action     string   `json:"action" validate:"required"`
}
