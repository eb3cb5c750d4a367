package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"product-catalog/internal/domain"

	"go.uber.org/zap"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// RespondWithError sends a structured error response
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithErrorDetails(w, statusCode, message, nil)
}

// RespondWithErrorDetails sends a structured error response with additional details
func RespondWithErrorDetails(w http.ResponseWriter, statusCode int, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: ErrorDetail{
			Code:      http.StatusText(statusCode),
			Message:   message,
			Details:   details,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	json.NewEncoder(w).Encode(response)
}

// RespondWithValidationErrors sends validation error response
func RespondWithValidationErrors(w http.ResponseWriter, errors []*domain.ValidationError) {
	details := make(map[string]interface{})
	details["validation_errors"] = errors

	RespondWithErrorDetails(w, http.StatusBadRequest, "validation failed", details)
}

// RespondDomainError maps engine errors onto status codes:
// validation and oversized batches 400, missing records 404, store
// constraint violations 409, anything else 500.
func RespondDomainError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var (
		tooLarge  *domain.BatchTooLargeError
		item      *domain.BatchItemError
		integrity *domain.DataIntegrityError
	)

	switch {
	case errors.As(err, &tooLarge):
		RespondWithErrorDetails(w, http.StatusBadRequest, tooLarge.Error(), map[string]interface{}{
			"limit": tooLarge.Limit,
			"size":  tooLarge.Size,
		})
	case len(FormatValidationErrors(err)) > 0:
		if !errors.As(err, &item) {
			RespondWithValidationErrors(w, FormatValidationErrors(err))
			return
		}
		RespondWithErrorDetails(w, http.StatusBadRequest, "validation failed", map[string]interface{}{
			"validation_errors": FormatValidationErrors(err),
			"index":             item.Index,
		})
	case errors.Is(err, domain.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &integrity):
		RespondWithErrorDetails(w, http.StatusConflict, "data integrity violation", map[string]interface{}{
			"constraint": integrity.Constraint,
			"detail":     integrity.Detail,
		})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
