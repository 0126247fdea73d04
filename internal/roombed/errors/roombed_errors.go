package roombederrors

import (
	"net/http"

	"go-carehome/internal/shared/apperror"
)

var (
	ErrRoomBedNotFound = apperror.New(
		apperror.CodeNotFound,
		"Room/Bed not found",
		http.StatusNotFound,
	)
	ErrCareReceiverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Care receiver not found",
		http.StatusNotFound,
	)
	ErrLocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Location not found",
		http.StatusNotFound,
	)
	ErrBedOccupied = apperror.New(
		apperror.CodeConflict,
		"Room/Bed is already occupied",
		http.StatusConflict,
	)
	ErrLocationMismatch = apperror.New(
		apperror.CodeConflict,
		"Care receiver and room/bed must be in the same location",
		http.StatusConflict,
	)
	ErrCombinationExists = apperror.New(
		apperror.CodeConflict,
		"Room/Bed combination already exists in this location",
		http.StatusConflict,
	)
	ErrNoCurrentBed = apperror.New(
		apperror.CodeInvalidState,
		"Care receiver is not assigned to any bed",
		http.StatusBadRequest,
	)
	ErrInvalidBedNumber = apperror.New(
		apperror.CodeInvalidInput,
		"bed_number must be prefixed with its room_number (e.g. 12-A for room 12)",
		http.StatusBadRequest,
	)
)
