// Package validation checks operation requests and configuration structs against
// their `validate` tags before anything is dispatched to a backend.
package validation

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/hostcap/domain/errors"
)

// validate is a package-level singleton; building a validator caches struct metadata.
var validate = validator.New()

// Struct validates v and converts the first failing field into a
// *errors.ValidationError. Non-struct values are accepted unchanged.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if stdErrors.As(err, &invalid) {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stdErrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &errors.ValidationError{
			Field: fieldName(fe),
			Err:   fmt.Errorf("failed on '%s' rule", ruleName(fe)),
		}
	}
	return &errors.ValidationError{Err: err}
}

// Var validates a single value against a tag such as "required".
func Var(field string, v any, tag string) error {
	if err := validate.Var(v, tag); err != nil {
		return &errors.ValidationError{Field: field, Err: fmt.Errorf("failed on '%s' rule", tag)}
	}
	return nil
}

func ruleName(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

// fieldName returns the namespaced field without the root struct name,
// e.g. "SQLQueryRequest.Query" becomes "Query".
func fieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
