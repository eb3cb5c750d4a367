package transport

import (
	"net/http"

	"product-catalog/internal/domain"
	"product-catalog/internal/middleware"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Post("/batch", h.CreateBatch)
		r.Get("/search", h.SearchCategories)
		r.Get("/inactive", h.ListInactive)
		r.Get("/exists", h.ExistsByName)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetCategory)
			r.Put("/", h.UpdateCategory)
			r.Delete("/", h.DeleteCategory)
			r.Put("/activate", h.Activate)
			r.Put("/deactivate", h.Deactivate)
			r.Get("/products", h.ListProducts)
		})
	})
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var draft domain.CategoryDraft
	if err := middleware.DecodeJSON(w, r, &draft); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), draft)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var drafts []domain.CategoryDraft
	if err := middleware.DecodeJSON(w, r, &drafts); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	categories, err := h.categoryService.CreateBatch(r.Context(), drafts)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, categories)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	category, err := h.categoryService.GetCategory(r.Context(), id)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	var draft domain.CategoryDraft
	if err := middleware.DecodeJSON(w, r, &draft); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(r.Context(), id, draft)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// DeleteCategory removes the category permanently
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	ok, err := h.categoryService.ActivateCategory(r.Context(), id)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	exists, err := h.categoryService.ExistsCategory(r.Context(), id)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}
	if !exists {
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	if err := h.categoryService.DeactivateCategory(r.Context(), id); err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProducts handles GET /api/categories/{id}/products
func (h *CategoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	products, err := h.categoryService.ListCategoryProducts(r.Context(), id)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *CategoryHandler) SearchCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.SearchCategories(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) ListInactive(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListInactive(r.Context())
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) ExistsByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		middleware.RespondWithValidationErrors(w, []*domain.ValidationError{
			{Field: "name", Message: "must not be blank"},
		})
		return
	}

	exists, err := h.categoryService.ExistsByName(r.Context(), name)
	if err != nil {
		middleware.RespondDomainError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ExistsResponse{Exists: exists})
}
