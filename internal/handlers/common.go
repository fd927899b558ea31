package handlers

import (
	"errors"
	"net/http"

	"github.com/jehub/points-backend/internal/services"
)

// statusForError maps service errors to HTTP status codes. Anything not
// recognised is a 500; the wrapped store error never reaches the client.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidReferralCode),
		errors.Is(err, services.ErrReferralInactive),
		errors.Is(err, services.ErrSelfReferral),
		errors.Is(err, services.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrNegativeAmount),
		errors.Is(err, services.ErrInvalidEntryType):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// errorMessage hides internal detail on 500s and passes the sentinel text
// through otherwise.
func errorMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
