package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is matched by every *NotFoundError through errors.Is
var ErrNotFound = errors.New("not found")

// ValidationError reports a single field that violates its constraint
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failing field of one draft
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each field error to errors.As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, fe := range e {
		errs = append(errs, fe)
	}
	return errs
}

// Fields returns the field errors carried anywhere in err.
func Fields(err error) []*ValidationError {
	var many ValidationErrors
	if errors.As(err, &many) {
		return many
	}
	var one *ValidationError
	if errors.As(err, &one) {
		return []*ValidationError{one}
	}
	return nil
}

// NotFoundError reports an operation that targets a missing record
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// BatchTooLargeError is returned before any item of an oversized batch is looked at
type BatchTooLargeError struct {
	Size  int
	Limit int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("cannot add more than %d items per batch (got %d)", e.Limit, e.Size)
}

// BatchItemError locates the failing item of a rejected batch
type BatchItemError struct {
	Index int
	Err   error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error {
	return e.Err
}

// DataIntegrityError carries a constraint violation reported by the store
type DataIntegrityError struct {
	Constraint string
	Detail     string
	Err        error
}

func (e *DataIntegrityError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("data integrity violation on %s", e.Constraint)
	}
	return fmt.Sprintf("data integrity violation on %s: %s", e.Constraint, e.Detail)
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}
