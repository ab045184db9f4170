package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required": "{field} is required",
	"email":    "{field} must be a valid email address",
	"uuid":     "{field} must be a valid UUID",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be less than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"gte":      "{field} must be greater than or equal to {param}",
}

// message renders every failed rule, so a client fixes a request in one round trip.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		parts = append(parts, describe(fieldErr))
	}

	return strings.Join(parts, "; ")
}

func describe(fieldErr val.FieldError) string {
	tmpl, ok := templates[fieldErr.Tag()]
	if !ok {
		return fieldErr.Error()
	}

	field := fieldErr.Field()
	if field == "" {
		field = fieldErr.StructField()
	}

	return strings.NewReplacer("{field}", field, "{param}", fieldErr.Param()).Replace(tmpl)
}
