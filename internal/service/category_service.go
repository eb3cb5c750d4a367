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

// CategoryService defines the catalog operations on categories
type CategoryService interface {
	CreateCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error)
	CreateBatch(ctx context.Context, drafts []domain.CategoryDraft) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, draft domain.CategoryDraft) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	ListInactive(ctx context.Context) ([]*domain.Category, error)
	SearchCategories(ctx context.Context, query string) ([]*domain.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsCategory(ctx context.Context, id uuid.UUID) (bool, error)
	ActivateCategory(ctx context.Context, id uuid.UUID) (bool, error)
	DeactivateCategory(ctx context.Context, id uuid.UUID) error
	ListCategoryProducts(ctx context.Context, id uuid.UUID) ([]*domain.Product, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	validator  Validator
	opts       Options
	logger     *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	validator Validator,
	opts Options,
	log *zap.Logger,
) CategoryService {
	return &categoryService{
		categories: categories,
		products:   products,
		validator:  validator,
		opts:       opts.withDefaults(),
		logger:     logger.Component(log, "catalog.categories"),
	}
}

func (s *categoryService) newCategory(draft domain.CategoryDraft) (*domain.Category, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate category id: %w", err)
	}

	return &domain.Category{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		IsActive:    domain.ActiveOr(draft.IsActive, true),
		CreatedAt:   s.opts.Clock().UTC(),
	}, nil
}

// CreateCategory stores a new category; a taken name surfaces as *domain.DataIntegrityError
func (s *categoryService) CreateCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error) {
	category, err := s.newCategory(draft)
	if err != nil {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.String("name", category.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	return category, nil
}

// CreateBatch follows the same size and all-or-nothing rules as product batches
func (s *categoryService) CreateBatch(ctx context.Context, drafts []domain.CategoryDraft) ([]*domain.Category, error) {
	if err := checkBatchSize(len(drafts), s.opts.BatchLimit); err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(drafts))
	for i, draft := range drafts {
		category, err := s.newCategory(draft)
		if err != nil {
			return nil, &domain.BatchItemError{Index: i, Err: err}
		}
		categories = append(categories, category)
	}

	if err := s.categories.CreateBatch(ctx, categories); err != nil {
		s.logger.Error("Failed to store category batch", zap.Int("size", len(categories)), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Category batch created", zap.Int("count", len(categories)))
	return categories, nil
}

// GetCategory returns *domain.NotFoundError for a missing id
func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// UpdateCategory replaces name, description and active flag
func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, draft domain.CategoryDraft) (*domain.Category, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = draft.Name
	category.Description = draft.Description
	category.IsActive = domain.ActiveOr(draft.IsActive, category.IsActive)

	if err := s.categories.Update(ctx, category); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to update category", zap.String("category_id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Category updated", zap.String("category_id", id.String()))
	return category, nil
}

// DeleteCategory removes the category permanently. Its products keep the now dangling reference.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx, repository.CategoryFilter{})
}

func (s *categoryService) ListInactive(ctx context.Context) ([]*domain.Category, error) {
	inactive := false
	return s.categories.List(ctx, repository.CategoryFilter{Active: &inactive})
}

// SearchCategories matches query case-insensitively within name or description
func (s *categoryService) SearchCategories(ctx context.Context, query string) ([]*domain.Category, error) {
	return s.categories.List(ctx, repository.CategoryFilter{Query: query})
}

func (s *categoryService) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.categories.ExistsByName(ctx, name)
}

func (s *categoryService) ExistsCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.categories.Exists(ctx, id)
}

func (s *categoryService) ActivateCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	category, found, err := s.load(ctx, id)
	if err != nil || !found {
		return false, err
	}

	if err := s.setActive(ctx, category, true); err != nil {
		return false, err
	}
	return true, nil
}

// DeactivateCategory soft-deletes the category; a missing id is a no-op
func (s *categoryService) DeactivateCategory(ctx context.Context, id uuid.UUID) error {
	category, found, err := s.load(ctx, id)
	if err != nil || !found {
		return err
	}

	return s.setActive(ctx, category, false)
}

// ListCategoryProducts returns every product that references the category, active or not
func (s *categoryService) ListCategoryProducts(ctx context.Context, id uuid.UUID) ([]*domain.Product, error) {
	exists, err := s.categories.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &domain.NotFoundError{Resource: "category", ID: id}
	}

	return s.products.List(ctx, repository.ProductFilter{CategoryID: &id})
}

func (s *categoryService) load(ctx context.Context, id uuid.UUID) (*domain.Category, bool, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load category: %w", err)
	}
	return category, true, nil
}

func (s *categoryService) setActive(ctx context.Context, category *domain.Category, active bool) error {
	category.IsActive = active
	if err := s.categories.Update(ctx, category); err != nil {
		s.logger.Error("Failed to persist category state",
			zap.String("category_id", category.ID.String()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Category state changed",
		zap.String("category_id", category.ID.String()),
		zap.Bool("is_active", active),
	)
	return nil
}
