package service

import (
	"context"
	"sort"
	"strings"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing. Both keep insertion order, which for
// UUIDv7 ids is also id order, as the Postgres store returns.
type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	order    []uuid.UUID
	batchErr error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	m.order = append(m.order, product.ID)
	return nil
}

func (m *mockProductRepository) CreateBatch(ctx context.Context, products []*domain.Product) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	for _, p := range products {
		_ = m.Create(ctx, p)
	}
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	stored, ok := m.products[product.ID]
	if !ok {
		return &domain.NotFoundError{Resource: "product", ID: product.ID}
	}
	copied := *product
	copied.CreatedAt = stored.CreatedAt
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return &domain.NotFoundError{Resource: "product", ID: id}
	}
	delete(m.products, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "product", ID: id}
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.products[id]
	return ok, nil
}

func (m *mockProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, p := range m.products {
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	out := []*domain.Product{}
	for _, id := range m.order {
		p := m.products[id]
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Active != nil && p.IsActive != *filter.Active {
			continue
		}
		if filter.Query != "" && !containsFold(p.Name, filter.Query) &&
			!containsFold(p.Description, filter.Query) && !containsFold(p.Brand, filter.Query) {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}

	if filter.Sort != nil {
		less := productLess(filter.Sort.Column)
		sort.SliceStable(out, func(i, j int) bool {
			if filter.Sort.Order == domain.SortOrderDesc {
				return less(out[j], out[i])
			}
			return less(out[i], out[j])
		})
	}

	if filter.Page != nil {
		start := filter.Page.Offset()
		if start >= len(out) {
			return []*domain.Product{}, nil
		}
		end := start + filter.Page.Size
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}

	return out, nil
}

func productLess(column string) func(a, b *domain.Product) bool {
	switch column {
	case "name":
		return func(a, b *domain.Product) bool { return a.Name < b.Name }
	case "brand":
		return func(a, b *domain.Product) bool { return a.Brand < b.Brand }
	case "base_price":
		return func(a, b *domain.Product) bool { return a.BasePrice < b.BasePrice }
	case "created_at":
		return func(a, b *domain.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b *domain.Product) bool { return a.ID.String() < b.ID.String() }
	}
}

func (m *mockProductRepository) CountActiveByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	counts := map[uuid.UUID]int64{}
	var seen []uuid.UUID
	for _, id := range m.order {
		p := m.products[id]
		if !p.IsActive || p.CategoryID == nil {
			continue
		}
		if _, ok := counts[*p.CategoryID]; !ok {
			seen = append(seen, *p.CategoryID)
		}
		counts[*p.CategoryID]++
	}

	out := []domain.CategoryCount{}
	for _, id := range seen {
		out = append(out, domain.CategoryCount{CategoryID: id, Count: counts[id]})
	}
	return out, nil
}

func (m *mockProductRepository) count() int {
	return len(m.products)
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	order      []uuid.UUID
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return &domain.DataIntegrityError{Constraint: "categories_name_key", Detail: "duplicate name"}
		}
	}
	copied := *category
	m.categories[category.ID] = &copied
	m.order = append(m.order, category.ID)
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
	if _, ok := m.categories[category.ID]; !ok {
		return &domain.NotFoundError{Resource: "category", ID: category.ID}
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return &domain.NotFoundError{Resource: "category", ID: id}
	}
	delete(m.categories, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "category", ID: id}
	}
	copied := *c
	return &copied, nil
}

func (m *mockCategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.categories[id]
	return ok, nil
}

func (m *mockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]*domain.Category, error) {
	out := []*domain.Category{}
	for _, id := range m.order {
		c := m.categories[id]
		if filter.Active != nil && c.IsActive != *filter.Active {
			continue
		}
		if filter.Query != "" && !containsFold(c.Name, filter.Query) && !containsFold(c.Description, filter.Query) {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}
