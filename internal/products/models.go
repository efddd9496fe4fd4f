package products

import "time"

// Product is a seller-owned listing row.
type Product struct {
	ID               string    `json:"id"`
	SellerID         string    `json:"seller_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	Stock            int       `json:"stock"`
	Category         string    `json:"category"`
	IsLocalSpecialty bool      `json:"is_local_specialty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewProduct is the payload for creating a listing.
type NewProduct struct {
	Name             string  `json:"name" validate:"required"`
	Description      string  `json:"description"`
	Price            float64 `json:"price" validate:"required,gt=0"`
	Stock            int     `json:"stock" validate:"min=0"`
	Category         string  `json:"category"`
	IsLocalSpecialty bool    `json:"is_local_specialty"`
}

// UpdateProduct is the payload for editing a listing. Nil fields are left
// unchanged.
type UpdateProduct struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	Price            *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock            *int     `json:"stock" validate:"omitempty,min=0"`
	Category         *string  `json:"category"`
	IsLocalSpecialty *bool    `json:"is_local_specialty"`
}
