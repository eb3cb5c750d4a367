package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"product-catalog/internal/domain"
)

// MaxBodyBytes caps request bodies; a full 100-item batch fits well within it
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned by DecodeJSON when the request carries no body
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes the request body into v. Field constraints are checked
// by the catalog services, not here.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// FormatValidationErrors extracts the field errors carried by err
func FormatValidationErrors(err error) []*domain.ValidationError {
	return domain.Fields(err)
}
