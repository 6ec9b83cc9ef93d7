package leaveerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave request overlaps an existing active request",
		http.StatusConflict,
	)
	ErrLeaveStateConflict = apperror.New(
		apperror.CodeInvalidState,
		"leave request is no longer pending",
		http.StatusConflict,
	)
	ErrLeaveForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to modify this leave request",
		http.StatusForbidden,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrIncompleteStatsWindow = apperror.New(
		apperror.CodeInvalidInput,
		"start_date and end_date must be provided together",
		http.StatusBadRequest,
	)
)
