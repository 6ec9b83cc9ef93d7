package salaryerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary record not found",
		http.StatusNotFound,
	)
	ErrSalaryAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Salary record already exists for this employee and period",
		http.StatusConflict,
	)
	ErrSalaryAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"Salary record is already paid",
		http.StatusConflict,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amounts must be non-negative decimals",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Period must be in YYYY-MM format",
		http.StatusBadRequest,
	)
)
