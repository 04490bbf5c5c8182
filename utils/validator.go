// utils/validator.go - request struct validation helpers
package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct runs the validate tags of a request struct.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FormatValidationErrors turns validator errors into a readable message.
func FormatValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var msg string
	for i, e := range validationErrors {
		if i > 0 {
			msg += "; "
		}
		switch e.Tag() {
		case "required":
			msg += e.Field() + " is required"
		case "email":
			msg += e.Field() + " must be a valid email"
		case "oneof":
			msg += e.Field() + " must be one of: " + e.Param()
		case "gt":
			msg += e.Field() + " must be greater than " + e.Param()
		case "gte":
			msg += e.Field() + " must be at least " + e.Param()
		case "lte":
			msg += e.Field() + " must be at most " + e.Param()
		case "min":
			msg += e.Field() + " needs at least " + e.Param() + " entries"
		default:
			msg += e.Field() + " is invalid"
		}
	}
	return msg
}
