// Package validator wraps go-playground/validator for the request DTOs.
package validator

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate runs the struct's validate tags and returns a field to
// failed-rule map for the error envelope's details, or nil when the
// value passes.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fieldErrs := err.(validator.ValidationErrors)
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
