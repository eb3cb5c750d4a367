package transport

import (
	"context"
	"strings"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing; rows come back in insertion order
type mockProductRepository struct {
	rows []*domain.Product
}

func (m *mockProductRepository) index(id uuid.UUID) int {
	for i, p := range m.rows {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	copied := *product
	m.rows = append(m.rows, &copied)
	return nil
}

func (m *mockProductRepository) CreateBatch(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		_ = m.Create(ctx, p)
	}
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	i := m.index(product.ID)
	if i < 0 {
		return &domain.NotFoundError{Resource: "product", ID: product.ID}
	}
	copied := *product
	m.rows[i] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	i := m.index(id)
	if i < 0 {
		return &domain.NotFoundError{Resource: "product", ID: id}
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	i := m.index(id)
	if i < 0 {
		return nil, &domain.NotFoundError{Resource: "product", ID: id}
	}
	copied := *m.rows[i]
	return &copied, nil
}

func (m *mockProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.index(id) >= 0, nil
}

func (m *mockProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, p := range m.rows {
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	out := []*domain.Product{}
	for _, p := range m.rows {
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Active != nil && p.IsActive != *filter.Active {
			continue
		}
		q := strings.ToLower(filter.Query)
		if q != "" && !strings.Contains(strings.ToLower(p.Name+"\x00"+p.Description+"\x00"+p.Brand), q) {
			continue
		}
		out = append(out, p)
	}
	if filter.Page != nil {
		start := min(filter.Page.Offset(), len(out))
		end := min(start+filter.Page.Size, len(out))
		out = out[start:end]
	}
	return out, nil
}

func (m *mockProductRepository) CountActiveByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	out := []domain.CategoryCount{}
	for _, p := range m.rows {
		if !p.IsActive || p.CategoryID == nil {
			continue
		}
		found := false
		for i := range out {
			if out[i].CategoryID == *p.CategoryID {
				out[i].Count++
				found = true
			}
		}
		if !found {
			out = append(out, domain.CategoryCount{CategoryID: *p.CategoryID, Count: 1})
		}
	}
	return out, nil
}

type mockCategoryRepository struct {
	rows []*domain.Category
}

func (m *mockCategoryRepository) index(id uuid.UUID) int {
	for i, c := range m.rows {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.rows {
		if c.Name == category.Name {
			return &domain.DataIntegrityError{Constraint: "categories_name_key", Detail: "Key (name)=(" + c.Name + ") already exists."}
		}
	}
	copied := *category
	m.rows = append(m.rows, &copied)
	return nil
}

func (m *mockCategoryRepository) CreateBatch(ctx context.Context, categories []*domain.Category) error {
	for _, c := range categories {
		if err := m.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	i := m.index(category.ID)
	if i < 0 {
		return &domain.NotFoundError{Resource: "category", ID: category.ID}
	}
	copied := *category
	m.rows[i] = &copied
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	i := m.index(id)
	if i < 0 {
		return &domain.NotFoundError{Resource: "category", ID: id}
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	i := m.index(id)
	if i < 0 {
		return nil, &domain.NotFoundError{Resource: "category", ID: id}
	}
	copied := *m.rows[i]
	return &copied, nil
}

func (m *mockCategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.index(id) >= 0, nil
}

func (m *mockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, c := range m.rows {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]*domain.Category, error) {
	out := []*domain.Category{}
	for _, c := range m.rows {
		if filter.Active != nil && c.IsActive != *filter.Active {
			continue
		}
		q := strings.ToLower(filter.Query)
		if q != "" && !strings.Contains(strings.ToLower(c.Name+"\x00"+c.Description), q) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
