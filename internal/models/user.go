package models

import "time"

// User roles. Only the role field affects authorization decisions in the
// services; everything else is contact data.
const (
	RoleCustomer = "Customer"
	RoleAdmin    = "Admin"
	RoleSeller   = "Seller"
)

// User represents an account of the store.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	FirstName string    `json:"first_name" validate:"omitempty,max=100"`
	LastName  string    `json:"last_name" validate:"omitempty,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Phone     string    `json:"phone" gorm:"type:varchar(30)" validate:"omitempty,max=30"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // No json output for security
	Role      string    `json:"role" validate:"omitempty,oneof=Customer Admin Seller"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
