package service

import (
	"context"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"go.uber.org/zap"
)

// BatchIngestor creates a bounded list of products as one unit
type BatchIngestor struct {
	products repository.ProductRepository
	factory  *productFactory
	limit    int
	logger   *zap.Logger
}

// NewBatchIngestor creates a BatchIngestor enforcing opts.BatchLimit
func NewBatchIngestor(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	validator Validator,
	opts Options,
	logger *zap.Logger,
) *BatchIngestor {
	opts = opts.withDefaults()
	return &BatchIngestor{
		products: products,
		factory:  newProductFactory(categories, validator, opts, logger),
		limit:    opts.BatchLimit,
		logger:   logger,
	}
}

// CreateBatch rejects the whole batch when it holds more than the configured
// limit, then validates every item before anything is written. Items are
// stored in one transaction and returned in input order.
func (b *BatchIngestor) CreateBatch(ctx context.Context, drafts []domain.ProductDraft) ([]*domain.Product, error) {
	if err := checkBatchSize(len(drafts), b.limit); err != nil {
		b.logger.Warn("Rejected oversized batch", zap.Int("size", len(drafts)), zap.Int("limit", b.limit))
		return nil, err
	}

	products := make([]*domain.Product, 0, len(drafts))
	for i, draft := range drafts {
		product, err := b.factory.newProduct(ctx, draft)
		if err != nil {
			return nil, &domain.BatchItemError{Index: i, Err: err}
		}
		products = append(products, product)
	}

	if err := b.products.CreateBatch(ctx, products); err != nil {
		b.logger.Error("Failed to store product batch", zap.Int("size", len(products)), zap.Error(err))
		return nil, err
	}

	b.logger.Info("Product batch created", zap.Int("count", len(products)))
	return products, nil
}

func checkBatchSize(size, limit int) error {
	if size > limit {
		return &domain.BatchTooLargeError{Size: size, Limit: limit}
	}
	return nil
}
