package leaveerrors

import (
	"net/http"

	"go-carehome/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrCaregiverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Caregiver not found",
		http.StatusNotFound,
	)
	ErrFullDayCutoff = apperror.New(
		apperror.CodeInvalidInput,
		"Full-day leave must be requested before 06:00 on the leave date",
		http.StatusBadRequest,
	)
	ErrHalfDayCutoff = apperror.New(
		apperror.CodeInvalidInput,
		"Half-day leave must be requested before 05:00 on the leave date",
		http.StatusBadRequest,
	)
	ErrRosterClash = apperror.New(
		apperror.CodeConflict,
		"Caregiver already has a roster entry on this date",
		http.StatusConflict,
	)
	ErrDuplicatePending = apperror.New(
		apperror.CodeConflict,
		"A pending leave request already exists for this date",
		http.StatusConflict,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Leave request is no longer pending",
		http.StatusBadRequest,
	)
	ErrNotRequester = apperror.New(
		apperror.CodeForbidden,
		"Only the requesting caregiver may cancel this leave request",
		http.StatusForbidden,
	)
	ErrInvalidLeaveDate = apperror.New(
		apperror.CodeInvalidInput,
		"date must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"leave id must be a valid UUID",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"caller id must be a valid UUID",
		http.StatusBadRequest,
	)
	ErrTooManyAttachments = apperror.New(
		apperror.CodeInvalidInput,
		"At most 5 attachments are allowed",
		http.StatusBadRequest,
	)
)
