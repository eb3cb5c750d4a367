package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
)

// CategoryFilter narrows a category listing. Nil fields are not applied.
type CategoryFilter struct {
	Active *bool
	// Query matches case-insensitively anywhere in name or description
	Query string
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	CreateBatch(ctx context.Context, categories []*domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, filter CategoryFilter) ([]*domain.Category, error)
}

const categoryColumns = `id, name, description, is_active, created_at`

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func scanCategory(scan func(...any) error) (*domain.Category, error) {
	c := &domain.Category{}
	if err := scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func insertCategory(ctx context.Context, db execer, category *domain.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Description,
		category.IsActive,
		category.CreatedAt,
	)
	if err != nil {
		return storeError("create category", err)
	}

	return nil
}

// Create inserts a new category. A duplicate name surfaces as *domain.DataIntegrityError.
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return insertCategory(ctx, r.db, category)
}

func (r *categoryRepository) CreateBatch(ctx context.Context, categories []*domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, category := range categories {
		if err := insertCategory(ctx, tx, category); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category batch: %w", err)
	}

	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, is_active = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Description, category.IsActive)
	if err != nil {
		return storeError("update category", err)
	}

	return affectedOne(result, "category", category.ID)
}

// Delete removes a category. Products referencing it keep their category_id.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return storeError("delete category", err)
	}

	return affectedOne(result, "category", id)
}

// FindByID retrieves a category by ID using parameterized queries
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)

	category, err := scanCategory(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "category", ID: id}
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return exists, nil
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1))`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// List retrieves categories matching filter in id order
func (r *categoryRepository) List(ctx context.Context, filter CategoryFilter) ([]*domain.Category, error) {
	var where whereClause

	if filter.Active != nil {
		where.add("is_active = ?", *filter.Active)
	}
	if filter.Query != "" {
		where.add(`(name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`, containsPattern(filter.Query))
	}

	query := `SELECT ` + categoryColumns + ` FROM categories` + where.String() + ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
