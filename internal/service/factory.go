package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBatchLimit is the largest batch accepted when no limit is configured
const DefaultBatchLimit = 100

// Validator checks a draft's field constraints
type Validator interface {
	Validate(v any) error
}

// Clock supplies creation timestamps
type Clock func() time.Time

// Options tune engine policy
type Options struct {
	BatchLimit int
	// StrictCategoryRefs rejects writes naming an unknown category instead of dropping the reference
	StrictCategoryRefs bool
	Clock              Clock
}

func (o Options) withDefaults() Options {
	if o.BatchLimit <= 0 {
		o.BatchLimit = DefaultBatchLimit
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// productFactory validates drafts and turns them into records ready to store
type productFactory struct {
	validator  Validator
	categories repository.CategoryRepository
	strictRefs bool
	clock      Clock
	logger     *zap.Logger
}

func newProductFactory(categories repository.CategoryRepository, validator Validator, opts Options, logger *zap.Logger) *productFactory {
	return &productFactory{
		validator:  validator,
		categories: categories,
		strictRefs: opts.StrictCategoryRefs,
		clock:      opts.Clock,
		logger:     logger,
	}
}

// newProduct validates draft and assigns id and creation time
func (f *productFactory) newProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	if err := f.validator.Validate(draft); err != nil {
		return nil, err
	}

	categoryID, err := f.resolveCategory(ctx, draft.CategoryID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product id: %w", err)
	}

	return &domain.Product{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		Brand:       draft.Brand,
		BasePrice:   draft.BasePrice,
		IsActive:    domain.ActiveOr(draft.IsActive, true),
		CategoryID:  categoryID,
		CreatedAt:   f.clock().UTC(),
	}, nil
}

// applyDraft copies an already validated draft onto existing, keeping id and creation time
func (f *productFactory) applyDraft(ctx context.Context, existing *domain.Product, draft domain.ProductDraft) error {
	categoryID, err := f.resolveCategory(ctx, draft.CategoryID)
	if err != nil {
		return err
	}

	existing.Name = draft.Name
	existing.Description = draft.Description
	existing.Brand = draft.Brand
	existing.BasePrice = draft.BasePrice
	existing.IsActive = domain.ActiveOr(draft.IsActive, existing.IsActive)
	existing.CategoryID = categoryID
	return nil
}

// resolveCategory looks the referenced category up in the store and attaches
// the stored id. An unknown id is dropped with a warning, or rejected in strict mode.
func (f *productFactory) resolveCategory(ctx context.Context, id *uuid.UUID) (*uuid.UUID, error) {
	if id == nil {
		return nil, nil
	}

	category, err := f.categories.FindByID(ctx, *id)
	if err == nil {
		resolved := category.ID
		return &resolved, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	if f.strictRefs {
		return nil, &domain.ValidationError{
			Field:   "category_id",
			Message: fmt.Sprintf("category %s does not exist", id),
		}
	}

	f.logger.Warn("Dropping reference to unknown category", zap.String("category_id", id.String()))
	return nil, nil
}
