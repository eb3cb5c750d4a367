package transport

import (
	"net/http"

	"product-catalog/internal/domain"
	"product-catalog/internal/middleware"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ExistsResponse answers the exists endpoints
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Post("/batch", h.CreateBatch)
		r.Get("/search", h.SearchProducts)
		r.Get("/inactive", h.ListInactive)
		r.Get("/count-by-category", h.CountByCategory)
		r.Get("/exists", h.ExistsByName)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.SoftDelete)
			r.Delete("/permanent", h.HardDelete)
			r.Put("/activate", h.Activate)
			r.Put("/deactivate", h.Deactivate)
			r.Put("/toggle", h.Toggle)
		})
	})
}

// ListProducts handles GET /api/products?category=&page=&size=&sort=
// Pagination applies only when both page and size are given; sort only with pagination.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query, err := h.productQuery(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	products, err := h.productService.ListProducts(r.Context(), query)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) productQuery(r *http.Request) (service.ProductQuery, error) {
	var query service.ProductQuery

	categoryID, err := optionalUUID(r, "category")
	if err != nil {
		return query, err
	}
	query.CategoryID = categoryID

	page, err := optionalInt(r, "page")
	if err != nil {
		return query, err
	}
	size, err := optionalInt(r, "size")
	if err != nil {
		return query, err
	}

	if page == nil || size == nil {
		return query, nil
	}

	if query.Page, err = service.NewPageSpec(*page, *size); err != nil {
		return query, err
	}
	if query.Sort, err = service.ParseSort(r.URL.Query().Get("sort")); err != nil {
		return query, err
	}

	return query, nil
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var draft domain.ProductDraft
	if err := middleware.DecodeJSON(w, r, &draft); err != nil {
		h.logger.Debug("Invalid product payload", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), draft)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// CreateBatch handles POST /api/products/batch
func (h *ProductHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var drafts []domain.ProductDraft
	if err := middleware.DecodeJSON(w, r, &drafts); err != nil {
		h.logger.Debug("Invalid batch payload", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.productService.CreateBatch(r.Context(), drafts)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, products)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	product, found, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}
	if !found {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	var draft domain.ProductDraft
	if err := middleware.DecodeJSON(w, r, &draft); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, draft)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// SoftDelete handles DELETE /api/products/{id}; the record is kept but deactivated
func (h *ProductHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	h.deactivate(w, r)
}

// Deactivate handles PUT /api/products/{id}/deactivate
func (h *ProductHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.deactivate(w, r)
}

// deactivate answers 404 for an unknown id even though the engine treats it as a no-op
func (h *ProductHandler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	exists, err := h.productService.ExistsProduct(r.Context(), id)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}
	if !exists {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	if err := h.productService.DeactivateProduct(r.Context(), id); err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HardDelete handles DELETE /api/products/{id}/permanent
func (h *ProductHandler) HardDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	if err := h.productService.HardDeleteProduct(r.Context(), id); err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Activate handles PUT /api/products/{id}/activate
func (h *ProductHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	ok, err := h.productService.ActivateProduct(r.Context(), id)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles PUT /api/products/{id}/toggle
func (h *ProductHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	product, found, err := h.productService.ToggleActive(r.Context(), id)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}
	if !found {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// SearchProducts handles GET /api/products/search?q=
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListInactive handles GET /api/products/inactive
func (h *ProductHandler) ListInactive(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListInactive(r.Context())
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// CountByCategory handles GET /api/products/count-by-category
func (h *ProductHandler) CountByCategory(w http.ResponseWriter, r *http.Request) {
	counts, err := h.productService.CountActiveByCategory(r.Context())
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, counts)
}

// ExistsByName handles GET /api/products/exists?name=
func (h *ProductHandler) ExistsByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		middleware.RespondWithValidationErrors(w, []*domain.ValidationError{
			{Field: "name", Message: "must not be blank"},
		})
		return
	}

	exists, err := h.productService.ExistsProductByName(r.Context(), name)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ExistsResponse{Exists: exists})
}
