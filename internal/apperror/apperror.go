// Package apperror defines the domain error kinds shared by the service and
// storage layers. Handlers translate these into transport status codes; the
// domain layers never see HTTP.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers match with errors.Is.
var (
	// ErrNotFound: the referenced entity (or edge) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized: the visibility resolver denied the operation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrConflict: a uniqueness rule was violated (duplicate follow,
	// duplicate collaborator, duplicate place, taken username).
	ErrConflict = errors.New("conflict")

	// ErrInvalidOperation: the request is structurally impossible
	// (self-follow, adding the owner as collaborator).
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUnavailable: the store or a transaction failed. The only kind a
	// caller may retry.
	ErrUnavailable = errors.New("unavailable")

	// ErrValidation: malformed input caught before touching the store.
	ErrValidation = errors.New("validation failed")
)

// AppError carries a sentinel kind plus a human-readable message.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable error message
	Field   string // optional: input field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a named entity does not exist.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NotAuthorized reports a denied read or write.
func NotAuthorized(message string) *AppError {
	return &AppError{
		Err:     ErrNotAuthorized,
		Message: message,
	}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// InvalidOperation reports a structurally impossible request.
func InvalidOperation(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidOperation,
		Message: message,
	}
}

// Unavailable wraps a store-level failure. The original error stays
// reachable through the sentinel for errors.Is, but the message shown to
// callers names only the failed operation.
func Unavailable(op string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err),
		Message: fmt.Sprintf("%s: store unavailable", op),
	}
}

// ValidationFailed reports malformed input on a named field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}
