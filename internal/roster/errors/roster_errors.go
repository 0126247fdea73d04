package rostererrors

import (
	"net/http"

	"go-carehome/internal/shared/apperror"
)

var (
	ErrRosterNotFound = apperror.New(
		apperror.CodeNotFound,
		"Roster entry not found",
		http.StatusNotFound,
	)
	ErrCaregiverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Caregiver not found",
		http.StatusNotFound,
	)
	ErrLocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Location not found",
		http.StatusNotFound,
	)
	ErrRoomBedNotFound = apperror.New(
		apperror.CodeNotFound,
		"Room/Bed not found",
		http.StatusNotFound,
	)
	ErrShiftOverlap = apperror.New(
		apperror.CodeConflict,
		"Caregiver already has an overlapping shift on this date",
		http.StatusConflict,
	)
	ErrInvalidShiftDate = apperror.New(
		apperror.CodeInvalidInput,
		"shift_date must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidTimeWindow = apperror.New(
		apperror.CodeInvalidInput,
		"start_time and end_time must be HH:MM with start_time before end_time",
		http.StatusBadRequest,
	)
	ErrInvalidShiftTransition = apperror.New(
		apperror.CodeInvalidState,
		"Shift status cannot move backwards",
		http.StatusBadRequest,
	)
	ErrNotShiftOwner = apperror.New(
		apperror.CodeForbidden,
		"Only the assigned caregiver may act on this shift",
		http.StatusForbidden,
	)
	ErrInvalidRosterID = apperror.New(
		apperror.CodeInvalidInput,
		"roster id must be a valid UUID",
		http.StatusBadRequest,
	)
)
