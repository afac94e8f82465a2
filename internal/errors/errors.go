package errors

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

var (
	// ErrValidation is returned when a field is missing or out of range.
	ErrValidation = errors.New("validation failed")
	// ErrSchema is returned when a request body does not match its schema.
	ErrSchema = errors.New("invalid request body")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on uniqueness or invariant violations.
	ErrConflict = errors.New("conflict")
	// ErrForbidden is returned when the caller may not act on the row.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned when a token is missing, invalid or expired.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidCredentials is returned for every failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Error carries a caller-facing message for one of the sentinel kinds.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation builds an ErrValidation error.
func Validation(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

// Schema builds an ErrSchema error.
func Schema(format string, args ...interface{}) error {
	return newError(ErrSchema, format, args...)
}

// NotFound builds an ErrNotFound error.
func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

// Conflict builds an ErrConflict error.
func Conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

// Forbidden builds an ErrForbidden error.
func Forbidden(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

// Unauthenticated builds an ErrUnauthenticated error.
func Unauthenticated(format string, args ...interface{}) error {
	return newError(ErrUnauthenticated, format, args...)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain and storage errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	msg := func(fallback string) string {
		var e *Error
		if errors.As(err, &e) {
			return e.Message
		}
		return fallback
	}

	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, msg(err.Error()), "VALIDATION_ERROR")
	case errors.Is(err, ErrSchema):
		return NewHTTPError(http.StatusUnprocessableEntity, msg(err.Error()), "SCHEMA_ERROR")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, msg(err.Error()), "NOT_FOUND")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, msg(err.Error()), "CONFLICT")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, msg(err.Error()), "FORBIDDEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Invalid username or password.", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, msg(err.Error()), "UNAUTHENTICATED")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewHTTPError(http.StatusConflict, "A record with the same key already exists.", "CONFLICT")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return NewHTTPError(http.StatusConflict, "A database constraint prevented this change.", "CONFLICT")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewHTTPError(http.StatusNotFound, "Record not found.", "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "An unexpected database error occurred.", "INTERNAL_ERROR")
	}
}
