package caregivererrors

import (
	"net/http"

	"go-carehome/internal/shared/apperror"
)

var (
	ErrCaregiverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Caregiver not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A caregiver with this email already exists",
		http.StatusConflict,
	)
	ErrInvalidCaregiverID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid caregiver ID",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrLocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Location not found",
		http.StatusNotFound,
	)
)
