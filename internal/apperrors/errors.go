// Package apperrors defines the categorized error type shared by the service
// and API layers. Every failure in the system maps to one of a small set of
// categories; nothing is fatal to the process.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Category classifies an error for HTTP mapping and logging.
type Category string

const (
	// CategoryStructural covers malformed JSON and missing required
	// collections on import.
	CategoryStructural Category = "structural"
	// CategoryValidation covers invalid or duplicate user input.
	CategoryValidation Category = "validation"
	// CategoryAuth covers one-time-code and session failures.
	CategoryAuth Category = "auth"
	// CategoryNotFound covers lookups that matched nothing.
	CategoryNotFound Category = "not_found"
	// CategoryForbidden covers authorization failures.
	CategoryForbidden Category = "forbidden"
	// CategoryConflict covers state transitions that are no longer legal.
	CategoryConflict Category = "conflict"
	// CategoryExternal covers hosted-identity and text-generation failures.
	CategoryExternal Category = "external"
	// CategoryInternal covers everything else.
	CategoryInternal Category = "internal"
)

// Error is an error with a category, a stable code and an HTTP status.
type Error struct {
	Category   Category
	StatusCode int
	Code       string
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error with an explicit category and status.
func New(category Category, status int, code, message string) *Error {
	return &Error{Category: category, StatusCode: status, Code: code, Message: message}
}

// Structural errors

func NewInvalidBackupError(cause error) *Error {
	return &Error{
		Category:   CategoryStructural,
		StatusCode: http.StatusBadRequest,
		Code:       "INVALID_BACKUP",
		Message:    "backup file is not valid JSON or misses required collections",
		Cause:      cause,
	}
}

// Validation errors

func NewInvalidCPFError(cpf string) *Error {
	return &Error{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       "INVALID_CPF",
		Message:    fmt.Sprintf("CPF %q fails checksum validation", cpf),
	}
}

func NewInvalidCNPJError(cnpj string) *Error {
	return &Error{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       "INVALID_CNPJ",
		Message:    fmt.Sprintf("CNPJ %q fails checksum validation", cnpj),
	}
}

func NewDuplicateCPFError() *Error {
	return &Error{
		Category:   CategoryValidation,
		StatusCode: http.StatusConflict,
		Code:       "DUPLICATE_CPF",
		Message:    "another user is already registered with this CPF",
	}
}

func NewMissingFieldError(field string) *Error {
	return &Error{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       "MISSING_FIELD",
		Message:    fmt.Sprintf("required field %q is missing", field),
	}
}

func NewValidationError(message string) *Error {
	return &Error{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_FAILED",
		Message:    message,
	}
}

// Not-found / authorization / conflict

func NewNotFoundError(what string) *Error {
	return &Error{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    what + " not found",
	}
}

func NewForbiddenError(message string) *Error {
	return &Error{
		Category:   CategoryForbidden,
		StatusCode: http.StatusForbidden,
		Code:       "FORBIDDEN",
		Message:    message,
	}
}

func NewConflictError(message string) *Error {
	return &Error{
		Category:   CategoryConflict,
		StatusCode: http.StatusConflict,
		Code:       "CONFLICT",
		Message:    message,
	}
}

// External collaborators

func NewExternalServiceError(service string, cause error) *Error {
	return &Error{
		Category:   CategoryExternal,
		StatusCode: http.StatusBadGateway,
		Code:       "EXTERNAL_SERVICE_ERROR",
		Message:    fmt.Sprintf("%s request failed", service),
		Cause:      cause,
	}
}

func NewInternalError(cause error) *Error {
	return &Error{
		Category:   CategoryInternal,
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		Cause:      cause,
	}
}

// AsError extracts an *Error from err's chain, or wraps err as internal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewInternalError(err)
}
