package locationerrors

import (
	"net/http"

	"go-carehome/internal/shared/apperror"
)

var (
	ErrLocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Location not found",
		http.StatusNotFound,
	)
	ErrLocationNameTaken = apperror.New(
		apperror.CodeConflict,
		"A location with this name already exists",
		http.StatusConflict,
	)
	ErrInvalidLocationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid location ID",
		http.StatusBadRequest,
	)
)
