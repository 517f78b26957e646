package middleware

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors flattens validator.Struct errors into a field -> message map
func ValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = "Invalid request data!"
		return errors
	}

	for _, fe := range fieldErrors {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			errors[field] = fmt.Sprintf("%s is required!", fe.Field())
		case "min":
			errors[field] = fmt.Sprintf("%s must be at least %s characters long!", fe.Field(), fe.Param())
		case "max":
			errors[field] = fmt.Sprintf("%s must be at most %s characters long!", fe.Field(), fe.Param())
		case "oneof":
			errors[field] = fmt.Sprintf("%s must be one of: %s!", fe.Field(), fe.Param())
		default:
			errors[field] = fmt.Sprintf("%s is invalid!", fe.Field())
		}
	}

	return errors
}
