package service

import (
	"context"
	"fmt"
	"strings"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
)

// sortFields maps accepted sort field names onto store columns
var sortFields = map[string]string{
	"id":          "id",
	"name":        "name",
	"description": "description",
	"brand":       "brand",
	"base_price":  "base_price",
	"basePrice":   "base_price",
	"is_active":   "is_active",
	"isActive":    "is_active",
	"created_at":  "created_at",
	"createdAt":   "created_at",
}

// ParseSort reads "field" or "field,direction". Only a case-insensitive "desc"
// sorts descending; any other direction token sorts ascending. An empty
// string means no sort.
func ParseSort(raw string) (*domain.SortSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	field, direction, _ := strings.Cut(raw, ",")
	column, ok := sortFields[strings.TrimSpace(field)]
	if !ok {
		return nil, &domain.ValidationError{
			Field:   "sort",
			Message: fmt.Sprintf("cannot sort by %q", strings.TrimSpace(field)),
		}
	}

	order := domain.SortOrderAsc
	if strings.EqualFold(strings.TrimSpace(direction), "desc") {
		order = domain.SortOrderDesc
	}

	return &domain.SortSpec{Column: column, Order: order}, nil
}

// NewPageSpec rejects a negative page index or a non-positive size instead of clamping
func NewPageSpec(page, size int) (*domain.PageSpec, error) {
	if page < 0 {
		return nil, &domain.ValidationError{Field: "page", Message: "must be greater than or equal to 0"}
	}
	if size <= 0 {
		return nil, &domain.ValidationError{Field: "size", Message: "must be greater than 0"}
	}
	return &domain.PageSpec{Page: page, Size: size}, nil
}

// ProductQuery carries the optional listing parameters of a product request
type ProductQuery struct {
	CategoryID *uuid.UUID
	Page       *domain.PageSpec
	Sort       *domain.SortSpec
}

// QueryComposer turns a ProductQuery into a store filter.
type QueryComposer struct {
	products repository.ProductRepository
}

func NewQueryComposer(products repository.ProductRepository) *QueryComposer {
	return &QueryComposer{products: products}
}

// QueryProducts resolves the listing in priority order:
//  1. a page was requested: active products (of the category, if given), sorted then paginated
//  2. only a category was given: that category's active products, unpaginated and in id order
//  3. nothing was given: every product, active or not
func (c *QueryComposer) QueryProducts(ctx context.Context, q ProductQuery) ([]*domain.Product, error) {
	active := true

	switch {
	case q.Page != nil:
		return c.products.List(ctx, repository.ProductFilter{
			CategoryID: q.CategoryID,
			Active:     &active,
			Page:       q.Page,
			Sort:       q.Sort,
		})
	case q.CategoryID != nil:
		return c.products.List(ctx, repository.ProductFilter{
			CategoryID: q.CategoryID,
			Active:     &active,
		})
	default:
		return c.products.List(ctx, repository.ProductFilter{})
	}
}
