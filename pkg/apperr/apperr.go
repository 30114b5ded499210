// Package apperr defines the error taxonomy shared by all application
// services. Callers dispatch on the sentinels with errors.Is; only Transient
// failures are safe to retry.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrPermissionDenied means the actor lacks rights for the requested
	// operation (e.g. a non-owner attempting a lifecycle transition).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidState means the operation is not legal from the record's
	// current status. Indicates a caller-side race; re-read fresh state.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation means malformed input: empty text, out-of-range score,
	// non-positive price, unknown category.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the referenced job/conversation/user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTransient means a storage call failed for availability reasons; the
	// caller may retry.
	ErrTransient = errors.New("transient storage failure")
)

func PermissionDenied(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, fmt.Sprintf(format, args...))
}

func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Transient wraps a storage error so callers can distinguish retryable
// infrastructure failures from domain rejections.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

// HTTPStatus maps a taxonomy error to an HTTP response code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
