package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestProductService(opts Options, log *zap.Logger) (ProductService, *mockProductRepository, *mockCategoryRepository) {
	products := newMockProductRepository()
	categories := newMockCategoryRepository()
	return NewProductService(products, categories, validation.New(), opts, log), products, categories
}

func boolPtr(b bool) *bool {
	return &b
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateProduct_DefaultsActive", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())
		start := time.Now()

		p, err := svc.CreateProduct(ctx, validDraft("Laptop"))
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, p.ID)
		require.True(t, p.IsActive)
		require.False(t, p.CreatedAt.Before(start))
	})

	t.Run("CreateProduct_ExplicitInactive", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())
		draft := validDraft("Laptop")
		draft.IsActive = boolPtr(false)

		p, err := svc.CreateProduct(ctx, draft)
		require.NoError(t, err)
		require.False(t, p.IsActive)
	})

	t.Run("CreateProduct_InvalidDraft", func(t *testing.T) {
		svc, repo, _ := newTestProductService(Options{}, zap.NewNop())
		draft := validDraft("")

		_, err := svc.CreateProduct(ctx, draft)

		fields := domain.Fields(err)
		require.Len(t, fields, 1)
		require.Equal(t, "name", fields[0].Field)
		require.Zero(t, repo.count())
	})

	t.Run("CreateProduct_ResolvesKnownCategory", func(t *testing.T) {
		svc, _, categories := newTestProductService(Options{}, zap.NewNop())
		tech := &domain.Category{ID: uuid.New(), Name: "Tech", Description: "gadgets", IsActive: true}
		require.NoError(t, categories.Create(ctx, tech))
		draft := validDraft("Phone")
		draft.CategoryID = &tech.ID

		p, err := svc.CreateProduct(ctx, draft)
		require.NoError(t, err)
		require.Equal(t, tech.ID, *p.CategoryID)
	})

	t.Run("CreateProduct_LenientDropsUnknownCategory", func(t *testing.T) {
		var buf bytes.Buffer
		log := zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&buf),
			zapcore.WarnLevel,
		))
		svc, repo, _ := newTestProductService(Options{}, log)
		unknown := uuid.New()
		draft := validDraft("Phone")
		draft.CategoryID = &unknown

		p, err := svc.CreateProduct(ctx, draft)
		require.NoError(t, err)
		require.Nil(t, p.CategoryID)

		stored, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.Nil(t, stored.CategoryID)
		require.Contains(t, buf.String(), unknown.String())
	})

	t.Run("CreateProduct_StrictRejectsUnknownCategory", func(t *testing.T) {
		svc, repo, _ := newTestProductService(Options{StrictCategoryRefs: true}, zap.NewNop())
		unknown := uuid.New()
		draft := validDraft("Phone")
		draft.CategoryID = &unknown

		_, err := svc.CreateProduct(ctx, draft)

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "category_id", ve.Field)
		require.Zero(t, repo.count())
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdateProduct_KeepsIdentityAndFlag", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())
		created, err := svc.CreateProduct(ctx, validDraft("Old"))
		require.NoError(t, err)
		_, _, err = svc.ToggleActive(ctx, created.ID)
		require.NoError(t, err)

		draft := validDraft("New")
		draft.BasePrice = 999
		updated, err := svc.UpdateProduct(ctx, created.ID, draft)
		require.NoError(t, err)
		require.Equal(t, created.ID, updated.ID)
		require.True(t, updated.CreatedAt.Equal(created.CreatedAt))
		require.Equal(t, "New", updated.Name)
		require.Equal(t, 999, updated.BasePrice)
		require.False(t, updated.IsActive)
	})

	t.Run("UpdateProduct_ExplicitFlag", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())
		created, err := svc.CreateProduct(ctx, validDraft("Old"))
		require.NoError(t, err)

		draft := validDraft("Old")
		draft.IsActive = boolPtr(false)
		updated, err := svc.UpdateProduct(ctx, created.ID, draft)
		require.NoError(t, err)
		require.False(t, updated.IsActive)
	})

	t.Run("UpdateProduct_Missing", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())

		_, err := svc.UpdateProduct(ctx, uuid.New(), validDraft("Ghost"))

		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		require.Equal(t, "product", nf.Resource)
	})

	t.Run("UpdateProduct_ValidatesBeforeLookup", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())

		_, err := svc.UpdateProduct(ctx, uuid.New(), validDraft(""))

		require.NotEmpty(t, domain.Fields(err))
		require.NotErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProductService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("GetProduct_FoundRegardlessOfState", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())
		draft := validDraft("Hidden")
		draft.IsActive = boolPtr(false)
		created, err := svc.CreateProduct(ctx, draft)
		require.NoError(t, err)

		got, found, err := svc.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, created.ID, got.ID)

		_, found, err = svc.GetProduct(ctx, uuid.New())
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("HardDeleteProduct_ThenGetIsEmpty", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())
		created, err := svc.CreateProduct(ctx, validDraft("Doomed"))
		require.NoError(t, err)

		require.NoError(t, svc.HardDeleteProduct(ctx, created.ID))

		_, found, err := svc.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("SearchProducts_MatchesAnyField", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())
		a := validDraft("ProdA")
		a.Description = "x"
		b := validDraft("B")
		b.Description = "Prod matches here"
		c := validDraft("C")
		c.Brand = "ProdBrand"
		for _, d := range []domain.ProductDraft{a, b, c} {
			_, err := svc.CreateProduct(ctx, d)
			require.NoError(t, err)
		}

		found, err := svc.SearchProducts(ctx, "Prod")
		require.NoError(t, err)
		require.Len(t, found, 3)
		require.Equal(t, "ProdA", found[0].Name)
		require.Equal(t, "B", found[1].Name)
		require.Equal(t, "C", found[2].Name)

		none, err := svc.SearchProducts(ctx, "zzz")
		require.NoError(t, err)
		require.Empty(t, none)

		all, err := svc.SearchProducts(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
	})

	t.Run("ExistsProductByName_IgnoresCase", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())
		_, err := svc.CreateProduct(ctx, validDraft("Tecnología"))
		require.NoError(t, err)

		var results []bool
		for _, name := range []string{"Tecnología", "tecnología", "TECNOLOGÍA"} {
			exists, err := svc.ExistsProductByName(ctx, name)
			require.NoError(t, err)
			results = append(results, exists)
		}
		require.Equal(t, []bool{true, true, true}, results)
	})

	t.Run("ListInactive_OnlyInactive", func(t *testing.T) {
		svc, repo, _ := newTestProductService(Options{}, zap.NewNop())
		seedProducts(t, repo, nil, true, false, false)

		inactive, err := svc.ListInactive(ctx)
		require.NoError(t, err)
		require.Len(t, inactive, 2)
	})

	t.Run("CountActiveByCategory_TechScenario", func(t *testing.T) {
		svc, _, categories := newTestProductService(Options{}, zap.NewNop())
		categorySvc := NewCategoryService(categories, newMockProductRepository(), validation.New(), Options{}, zap.NewNop())
		tech, err := categorySvc.CreateCategory(ctx, domain.CategoryDraft{Name: "Tech", Description: "gadgets"})
		require.NoError(t, err)
		empty, err := categorySvc.CreateCategory(ctx, domain.CategoryDraft{Name: "Empty", Description: "nothing"})
		require.NoError(t, err)

		for i, active := range []bool{true, true, true, false, false} {
			draft := validDraft("Tech item")
			draft.BasePrice = i
			draft.CategoryID = &tech.ID
			draft.IsActive = boolPtr(active)
			_, err := svc.CreateProduct(ctx, draft)
			require.NoError(t, err)
		}
		retired := validDraft("Retired")
		retired.CategoryID = &empty.ID
		retired.IsActive = boolPtr(false)
		_, err = svc.CreateProduct(ctx, retired)
		require.NoError(t, err)

		counts, err := svc.CountActiveByCategory(ctx)
		require.NoError(t, err)
		require.Equal(t, []domain.CategoryCount{{CategoryID: tech.ID, Count: 3}}, counts)
	})

	t.Run("ActivateAndDeactivate_ThroughFacade", func(t *testing.T) {
		svc, _, _ := newTestProductService(Options{}, zap.NewNop())
		created, err := svc.CreateProduct(ctx, validDraft("Flip"))
		require.NoError(t, err)

		require.NoError(t, svc.DeactivateProduct(ctx, created.ID))
		got, _, _ := svc.GetProduct(ctx, created.ID)
		require.False(t, got.IsActive)

		ok, err := svc.ActivateProduct(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)

		exists, err := svc.ExistsProduct(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, exists)
	})
}
