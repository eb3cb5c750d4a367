package service

import (
	"context"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"
)

// Aggregator computes per-category figures over the product store
type Aggregator struct {
	products repository.ProductRepository
}

func NewAggregator(products repository.ProductRepository) *Aggregator {
	return &Aggregator{products: products}
}

// CountActiveByCategory counts active products per category. Categories with
// no active product are absent rather than reported as zero, and row order
// is not significant.
func (a *Aggregator) CountActiveByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	return a.products.CountActiveByCategory(ctx)
}
