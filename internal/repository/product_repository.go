package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
)

// ProductFilter narrows a product listing. Nil fields are not applied.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Active     *bool
	// Query matches case-insensitively anywhere in name, description or brand
	Query string
	Page  *domain.PageSpec
	Sort  *domain.SortSpec
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	CreateBatch(ctx context.Context, products []*domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	CountActiveByCategory(ctx context.Context) ([]domain.CategoryCount, error)
}

// productSortColumns whitelists the columns a listing may be ordered by
var productSortColumns = map[string]bool{
	"id":          true,
	"name":        true,
	"description": true,
	"brand":       true,
	"base_price":  true,
	"is_active":   true,
	"category_id": true,
	"created_at":  true,
}

const productColumns = `id, name, description, brand, base_price, is_active, category_id, created_at`

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(scan func(...any) error) (*domain.Product, error) {
	p := &domain.Product{}
	err := scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Brand,
		&p.BasePrice,
		&p.IsActive,
		&p.CategoryID,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func insertProduct(ctx context.Context, db execer, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Brand,
		product.BasePrice,
		product.IsActive,
		product.CategoryID,
		product.CreatedAt,
	)
	if err != nil {
		return storeError("create product", err)
	}

	return nil
}

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	return insertProduct(ctx, r.db, product)
}

// CreateBatch inserts every product in one transaction; nothing is kept if any insert fails
func (r *productRepository) CreateBatch(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, product := range products {
		if err := insertProduct(ctx, tx, product); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product batch: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of a product; created_at is never rewritten
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, brand = $4, base_price = $5,
		    is_active = $6, category_id = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Brand,
		product.BasePrice,
		product.IsActive,
		product.CategoryID,
	)
	if err != nil {
		return storeError("update product", err)
	}

	return affectedOne(result, "product", product.ID)
}

// Delete removes a product permanently
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return storeError("delete product", err)
	}

	return affectedOne(result, "product", id)
}

// FindByID retrieves a product by ID regardless of its active flag
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	product, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "product", ID: id}
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

func (r *productRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// ExistsByName compares names case-insensitively; LOWER follows the database locale for non-ASCII letters
func (r *productRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE LOWER(name) = LOWER($1))`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return exists, nil
}

// List retrieves products matching filter, ordered by the requested sort then by id
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	var where whereClause

	if filter.CategoryID != nil {
		where.add("category_id = ?", *filter.CategoryID)
	}
	if filter.Active != nil {
		where.add("is_active = ?", *filter.Active)
	}
	if filter.Query != "" {
		where.add(`(name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\' OR brand ILIKE ? ESCAPE '\')`,
			containsPattern(filter.Query))
	}

	query := `SELECT ` + productColumns + ` FROM products` + where.String() + orderBy(filter.Sort, productSortColumns)
	args := where.args

	if filter.Page != nil {
		args = append(args, filter.Page.Size, filter.Page.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// CountActiveByCategory groups active products by category; categories without
// active products produce no row
func (r *productRepository) CountActiveByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	query := `
		SELECT category_id, COUNT(*)
		FROM products
		WHERE is_active AND category_id IS NOT NULL
		GROUP BY category_id
		ORDER BY category_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count products by category: %w", err)
	}
	defer rows.Close()

	counts := []domain.CategoryCount{}
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.CategoryID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category counts: %w", err)
	}

	return counts, nil
}

// orderBy renders the ORDER BY clause. Columns outside allowed fall back to id,
// and id is always the final tie-breaker so paging is stable.
func orderBy(sort *domain.SortSpec, allowed map[string]bool) string {
	if sort == nil || !allowed[sort.Column] {
		return " ORDER BY id ASC"
	}

	order := sort.Order
	if order != domain.SortOrderDesc {
		order = domain.SortOrderAsc
	}

	if sort.Column == "id" {
		return fmt.Sprintf(" ORDER BY id %s", order)
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", sort.Column, order)
}
