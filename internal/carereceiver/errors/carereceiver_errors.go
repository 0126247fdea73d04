package carereceivererrors

import (
	"net/http"

	"go-carehome/internal/shared/apperror"
)

var (
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
	ErrInvalidCareReceiverID = apperror.New(
		apperror.CodeInvalidInput,
		"care_receiver id must be a valid UUID",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"date must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrAlreadyDischarged = apperror.New(
		apperror.CodeInvalidState,
		"Care receiver is already discharged",
		http.StatusBadRequest,
	)
)
