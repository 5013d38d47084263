package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleNotFound is returned when a role filter matches no users,
	// including filters outside the recognized role set.
	ErrRoleNotFound = errors.New("no users with this role found")
	// ErrEmailExists is returned when the email uniqueness rule is violated.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidUserID is returned when an identifier is non-positive or malformed.
	ErrInvalidUserID = errors.New("invalid user id")
)

// ValidationError reports one or more input fields failing their constraints.
// It is produced before any storage access.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []string
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
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unclassified errors are
// treated as storage failures and surface as 500 without leaking detail.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		httpErr := NewHTTPError(http.StatusBadRequest, "invalid input data", "VALIDATION_ERROR")
		httpErr.Details = ve.Fields
		return httpErr
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRoleNotFound):
		return NewHTTPError(http.StatusNotFound, ErrRoleNotFound.Error(), "ROLE_NOT_FOUND")
	case errors.Is(err, ErrEmailExists):
		return NewHTTPError(http.StatusConflict, ErrEmailExists.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrInvalidUserID):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidUserID.Error(), "INVALID_USER_ID")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
