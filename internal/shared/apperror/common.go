package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)
)

// FieldViolation is a single field-level validation failure. Operations
// validate their whole input up front and report every violation at once.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validation builds an INVALID_INPUT error carrying the violation list.
func Validation(violations []FieldViolation) *AppError {
	msg := "The provided input is invalid"
	if len(violations) == 1 {
		msg = violations[0].Field + " " + violations[0].Message
	}
	return New(CodeInvalidInput, msg, http.StatusBadRequest).WithDetails(violations)
}

func RequiredField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s is required", field),
		http.StatusBadRequest,
	)
}

func InvalidField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s is invalid", field),
		http.StatusBadRequest,
	)
}
