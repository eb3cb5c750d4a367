// Package validation checks drafts against their struct tags and reports
// failures as domain field errors keyed by JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"product-catalog/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator wraps a configured go-playground validator
type Validator struct {
	validate *validator.Validate
}

// New returns a validator that understands the "notblank" tag and names
// fields after their json tag
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate returns nil or a domain.ValidationErrors with one entry per failing field
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &domain.ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "must not be blank"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "invalid value"
	}
}
