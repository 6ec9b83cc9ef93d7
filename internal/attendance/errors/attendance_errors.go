package attendanceerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"Already clocked in for today",
		http.StatusConflict,
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeConflict,
		"Already clocked out for today",
		http.StatusConflict,
	)
	ErrNoClockInToday = apperror.New(
		apperror.CodeNotFound,
		"No clock-in found for today",
		http.StatusNotFound,
	)
	ErrOnLeaveToday = apperror.New(
		apperror.CodeInvalidState,
		"Cannot clock in while on approved leave",
		http.StatusConflict,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
)
