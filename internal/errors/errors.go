package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kinds. Every error the core returns on purpose wraps exactly one of these;
// anything else is an infrastructure failure.
var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when a required field is missing or invalid.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a row was changed or removed concurrently.
	ErrConflict = errors.New("modified concurrently")
	// ErrNothingToEdit is returned when an edit is deliberately skipped.
	ErrNothingToEdit = errors.New("nothing to edit")
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrPostNotFound is returned when a post is not found.
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)
	// ErrTagNotFound is returned when a tag is not found.
	ErrTagNotFound = fmt.Errorf("tag %w", ErrNotFound)
	// ErrDuplicateTagName is returned when a tag name is already taken.
	ErrDuplicateTagName = fmt.Errorf("%w: tag name already exists", ErrValidation)
	// ErrTagConflict is returned when a tag changed under a running unit of work.
	ErrTagConflict = fmt.Errorf("tag %w", ErrConflict)
	// ErrPostConflict is returned when a post changed under a running unit of work.
	ErrPostConflict = fmt.Errorf("post %w", ErrConflict)
	// ErrUserHasPosts is returned when deleting a user who still owns posts is refused.
	ErrUserHasPosts = fmt.Errorf("user still owns posts: %w", ErrConflict)
	// ErrTagHasNoPosts is returned when editing a tag that is not attached to any post.
	ErrTagHasNoPosts = fmt.Errorf("tag has no posts: %w", ErrNothingToEdit)
)

// Validation wraps a field-level failure into ErrValidation.
func Validation(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Infrastructure failures never leak their message to the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrPostNotFound):
		return NewHTTPError(http.StatusNotFound, ErrPostNotFound.Error(), "POST_NOT_FOUND")
	case errors.Is(err, ErrTagNotFound):
		return NewHTTPError(http.StatusNotFound, ErrTagNotFound.Error(), "TAG_NOT_FOUND")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrDuplicateTagName):
		return NewHTTPError(http.StatusConflict, ErrDuplicateTagName.Error(), "DUPLICATE_TAG_NAME")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrUserHasPosts):
		return NewHTTPError(http.StatusConflict, ErrUserHasPosts.Error(), "USER_HAS_POSTS")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, "resource was modified concurrently, please retry", "CONFLICT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
