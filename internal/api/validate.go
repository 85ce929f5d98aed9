// ABOUTME: Presentation-layer request validation using struct tags
// ABOUTME: Surfaces failures in the same field-error shape the backend uses

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rentalbridge/rentalbridge-go/internal/transport"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest checks a request struct's validate tags before it goes on
// the wire. Failures come back as a validation APIError with per-field detail
// so callers display them exactly like backend validation errors.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		fields[name] = append(fields[name], describeFailure(fe))
	}

	return &transport.APIError{
		Kind:    transport.KindValidation,
		Status:  http.StatusBadRequest,
		Message: "validation failed",
		Fields:  fields,
	}
}

func describeFailure(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "e164":
		return "Enter a valid phone number in international format."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "gt":
		return "Must be greater than " + fe.Param() + "."
	default:
		return "Invalid value."
	}
}
