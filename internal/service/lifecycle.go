package service

import (
	"context"
	"errors"
	"fmt"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LifecycleManager moves products between the active and inactive states and
// removes them permanently. Concurrent transitions on one id race; the last
// write to reach the store wins.
type LifecycleManager struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewLifecycleManager(products repository.ProductRepository, logger *zap.Logger) *LifecycleManager {
	return &LifecycleManager{products: products, logger: logger}
}

// Deactivate soft-deletes the product. A missing id is not an error.
func (m *LifecycleManager) Deactivate(ctx context.Context, id uuid.UUID) error {
	product, found, err := m.load(ctx, id)
	if err != nil || !found {
		return err
	}

	if err := m.setActive(ctx, product, false); err != nil {
		return err
	}

	m.logger.Info("Product deactivated", zap.String("product_id", id.String()))
	return nil
}

// Activate reports whether the product exists; if it does it is left active.
func (m *LifecycleManager) Activate(ctx context.Context, id uuid.UUID) (bool, error) {
	product, found, err := m.load(ctx, id)
	if err != nil || !found {
		return false, err
	}

	if err := m.setActive(ctx, product, true); err != nil {
		return false, err
	}

	m.logger.Info("Product activated", zap.String("product_id", id.String()))
	return true, nil
}

// ToggleActive flips the flag and returns the stored record, or found=false for a missing id
func (m *LifecycleManager) ToggleActive(ctx context.Context, id uuid.UUID) (*domain.Product, bool, error) {
	product, found, err := m.load(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}

	if err := m.setActive(ctx, product, !product.IsActive); err != nil {
		return nil, false, err
	}

	m.logger.Info("Product toggled",
		zap.String("product_id", id.String()),
		zap.Bool("is_active", product.IsActive),
	)
	return product, true, nil
}

// HardDelete removes the record; a missing id yields *domain.NotFoundError
func (m *LifecycleManager) HardDelete(ctx context.Context, id uuid.UUID) error {
	if err := m.products.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			m.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		}
		return err
	}

	m.logger.Info("Product deleted permanently", zap.String("product_id", id.String()))
	return nil
}

func (m *LifecycleManager) load(ctx context.Context, id uuid.UUID) (*domain.Product, bool, error) {
	product, err := m.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load product: %w", err)
	}
	return product, true, nil
}

func (m *LifecycleManager) setActive(ctx context.Context, product *domain.Product, active bool) error {
	product.IsActive = active
	if err := m.products.Update(ctx, product); err != nil {
		m.logger.Error("Failed to persist product state",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
