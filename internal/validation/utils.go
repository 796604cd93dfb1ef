package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/deppfellow/hello-service/internal/errs"
	"github.com/go-playground/validator/v10"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a struct with validator tags (`validate:"required,integer"`)
// - Implement Validate() error that runs Struct(payload)
type Validatable interface {
	Validate() error
}

// validate is shared: validator caches struct metadata per instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their query parameter name ("age") instead of the Go
	// field name ("Age").
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// integer: the string must parse as a base-10 int.
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(fl.Field().String())
		return err == nil
	})

	return v
}

// Check runs v.Validate() and returns its field errors, nil when valid.
func Check(v Validatable) []errs.FieldError {
	return FieldErrors(v.Validate())
}

// Struct runs tag validation on payload.
func Struct(payload any) error {
	return validate.Struct(payload)
}

// FieldErrors converts an error returned by Validate() into field errors,
// in struct field order.
func FieldErrors(err error) []errs.FieldError {
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a tag failure (e.g. InvalidValidationError): surface it as is.
		return []errs.FieldError{{Field: "payload", Error: err.Error()}}
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fieldErr.Field(),
			Error: describe(fieldErr),
		})
	}
	return fieldErrors
}

// Lines renders field errors as "<field>: <error>" lines.
func Lines(fieldErrors []errs.FieldError) []string {
	lines := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		lines = append(lines, fmt.Sprintf("%s: %s", fe.Field, fe.Error))
	}
	return lines
}

// describe maps a validator tag to a user-friendly message.
func describe(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "integer":
		return "must be an integer"

	case "min":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if err.Type().Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	default:
		// Fallback for tags not explicitly handled above.
		if err.Param() != "" {
			return fmt.Sprintf("failed %s:%s", err.Tag(), err.Param())
		}
		return fmt.Sprintf("failed %s", err.Tag())
	}
}
