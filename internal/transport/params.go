package transport

import (
	"net/http"
	"strconv"

	"product-catalog/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// pathID parses the {id} URL parameter
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: "id", Message: "must be a valid UUID"}
	}
	return id, nil
}

// optionalUUID parses a query parameter, returning nil when it is absent
func optionalUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &domain.ValidationError{Field: name, Message: "must be a valid UUID"}
	}
	return &id, nil
}

// optionalInt parses a query parameter, returning nil when it is absent
func optionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &domain.ValidationError{Field: name, Message: "must be an integer"}
	}
	return &n, nil
}
