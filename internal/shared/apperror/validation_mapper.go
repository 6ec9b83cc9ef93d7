package apperror

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError converts gin binding failures into a structured
// INVALID_INPUT error listing every violated field.
func MapValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ErrInvalidInput
	}

	violations := make([]FieldViolation, 0, len(errs))
	for _, e := range errs {
		field := formatFieldName(e.Field())
		switch e.Tag() {
		case "required":
			violations = append(violations, FieldViolation{Field: field, Message: "is required"})
		case "oneof":
			violations = append(violations, FieldViolation{Field: field, Message: "must be one of: " + e.Param()})
		case "min":
			violations = append(violations, FieldViolation{Field: field, Message: "is too short"})
		case "max":
			violations = append(violations, FieldViolation{Field: field, Message: "is too long"})
		default:
			violations = append(violations, FieldViolation{Field: field, Message: "is invalid"})
		}
	}
	return Validation(violations)
}
