// Package errs defines the error taxonomy shared by the domain packages.
package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected input value. Maps to HTTP 400.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a ValidationError for a field.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvariantViolation reports an attempted operation that would break a
// structural guarantee, such as writing a duplicate APGAR detail or
// mutating the audit log. Maps to HTTP 409.
type InvariantViolation struct {
	Message string `json:"message"`
}

func (e *InvariantViolation) Error() string { return e.Message }

// Invariant builds an InvariantViolation.
func Invariant(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Message: fmt.Sprintf(format, args...)}
}

// StateTransitionWarning reports a lifecycle operation that was skipped
// because the subject was not in the required state. The operation is a
// no-op and the caller surfaces the warning inside a 2xx response.
type StateTransitionWarning struct {
	Message string `json:"message"`
}

func (e *StateTransitionWarning) Error() string { return e.Message }

// TransitionWarning builds a StateTransitionWarning.
func TransitionWarning(format string, args ...any) *StateTransitionWarning {
	return &StateTransitionWarning{Message: fmt.Sprintf(format, args...)}
}

// IsWarning reports whether err is a StateTransitionWarning.
func IsWarning(err error) bool {
	var w *StateTransitionWarning
	return errors.As(err, &w)
}

// HTTPError maps a domain error to an echo HTTPError. Warnings are not
// errors at the transport level and must be handled before calling this.
func HTTPError(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	}
	var iv *InvariantViolation
	if errors.As(err, &iv) {
		return echo.NewHTTPError(http.StatusConflict, iv.Error())
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "resource not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
