package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Brand       string     `json:"brand" db:"brand"`
	BasePrice   int        `json:"base_price" db:"base_price"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ProductDraft is the caller-supplied data for a product before the server
// assigns its id and creation time
type ProductDraft struct {
	Name        string     `json:"name" validate:"notblank,max=100"`
	Description string     `json:"description" validate:"notblank,max=500"`
	Brand       string     `json:"brand" validate:"notblank,max=50"`
	BasePrice   int        `json:"base_price" validate:"gte=0,lte=2147483647"`
	IsActive    *bool      `json:"is_active,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

// Category represents a product category
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CategoryDraft is the caller-supplied data for a category
type CategoryDraft struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Description string `json:"description" validate:"notblank,max=500"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// CategoryCount is one row of the active-products-per-category aggregate
type CategoryCount struct {
	CategoryID uuid.UUID `json:"category_id"`
	Count      int64     `json:"count"`
}

// ActiveOr returns the draft flag, or fallback when the caller left it unset.
func ActiveOr(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}
