package service

import (
	"context"
	"errors"
	"fmt"

	"product-catalog/internal/domain"
	"product-catalog/internal/logger"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService defines the catalog operations on products
type ProductService interface {
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
	CreateBatch(ctx context.Context, drafts []domain.ProductDraft) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, bool, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, draft domain.ProductDraft) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	ActivateProduct(ctx context.Context, id uuid.UUID) (bool, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*domain.Product, bool, error)
	HardDeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, query ProductQuery) ([]*domain.Product, error)
	ListInactive(ctx context.Context) ([]*domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]*domain.Product, error)
	CountActiveByCategory(ctx context.Context) ([]domain.CategoryCount, error)
	ExistsProductByName(ctx context.Context, name string) (bool, error)
	ExistsProduct(ctx context.Context, id uuid.UUID) (bool, error)
}

type productService struct {
	products   repository.ProductRepository
	factory    *productFactory
	queries    *QueryComposer
	lifecycle  *LifecycleManager
	batches    *BatchIngestor
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	validator Validator,
	opts Options,
	log *zap.Logger,
) ProductService {
	opts = opts.withDefaults()
	log = logger.Component(log, "catalog.products")

	return &productService{
		products:   products,
		factory:    newProductFactory(categories, validator, opts, log),
		queries:    NewQueryComposer(products),
		lifecycle:  NewLifecycleManager(products, log.Named("lifecycle")),
		batches:    NewBatchIngestor(products, categories, validator, opts, log.Named("batch")),
		aggregator: NewAggregator(products),
		logger:     log,
	}
}

// CreateProduct validates the draft, re-resolves its category and stores it
func (s *productService) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	product, err := s.factory.newProduct(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	return product, nil
}

func (s *productService) CreateBatch(ctx context.Context, drafts []domain.ProductDraft) ([]*domain.Product, error) {
	return s.batches.CreateBatch(ctx, drafts)
}

// GetProduct looks a product up by id whatever its active state
func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, bool, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get product: %w", err)
	}
	return product, true, nil
}

// UpdateProduct replaces the product's fields. created_at never changes, and
// an unset is_active keeps the stored flag.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, draft domain.ProductDraft) (*domain.Product, error) {
	if err := s.factory.validator.Validate(draft); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.factory.applyDraft(ctx, product, draft); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Product updated", zap.String("product_id", id.String()))
	return product, nil
}

func (s *productService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return s.lifecycle.Deactivate(ctx, id)
}

func (s *productService) ActivateProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.lifecycle.Activate(ctx, id)
}

func (s *productService) ToggleActive(ctx context.Context, id uuid.UUID) (*domain.Product, bool, error) {
	return s.lifecycle.ToggleActive(ctx, id)
}

func (s *productService) HardDeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.lifecycle.HardDelete(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, query ProductQuery) ([]*domain.Product, error) {
	return s.queries.QueryProducts(ctx, query)
}

func (s *productService) ListInactive(ctx context.Context) ([]*domain.Product, error) {
	inactive := false
	return s.products.List(ctx, repository.ProductFilter{Active: &inactive})
}

// SearchProducts matches query case-insensitively within name, description or brand.
// An empty query matches every product.
func (s *productService) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.products.List(ctx, repository.ProductFilter{Query: query})
}

func (s *productService) CountActiveByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	return s.aggregator.CountActiveByCategory(ctx)
}

func (s *productService) ExistsProductByName(ctx context.Context, name string) (bool, error) {
	return s.products.ExistsByName(ctx, name)
}

func (s *productService) ExistsProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.products.Exists(ctx, id)
}
