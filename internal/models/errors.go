package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by AppError.
const (
	CodeNotFound    = "NOT_FOUND"
	CodeValidation  = "VALIDATION_ERROR"
	CodeForbidden   = "FORBIDDEN"
	CodeConflict    = "CONFLICT"
	CodePersistence = "PERSISTENCE_ERROR"
)

// Reasons wrapped by AppError so callers can match them with errors.Is.
var (
	ErrSelfReference     = errors.New("operation references the same user twice")
	ErrSelfAction        = errors.New("actor owns the gift")
	ErrNoAdjacentItem    = errors.New("no adjacent item to swap with")
	ErrNotFriends        = errors.New("users are not friends")
	ErrCategoryNotOwned  = errors.New("category is not owned by user")
	ErrNotOwnerOrSecret  = errors.New("gift is neither owned by user nor secret")
	ErrCategoryNotEmpty  = errors.New("category still holds gifts")
	ErrActionsOnCategory = errors.New("user has actions on gifts of the category")
	ErrRequestExists     = errors.New("friend request already exists")
	ErrInvalidStatus     = errors.New("invalid status value")
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Op names the attempted store operation for persistence failures.
	Op  string
	Err error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Op)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithReason attaches one of the reason sentinels to the error.
func (e *AppError) WithReason(reason error) *AppError {
	e.Err = reason
	return e
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewPersistenceError wraps a backing-store failure together with the operation that hit it.
func NewPersistenceError(op string, err error) *AppError {
	return &AppError{
		Code:    CodePersistence,
		Message: "persistence failure",
		Op:      op,
		Err:     err,
	}
}

// RequestExistsError is returned when a friend request already links two users.
type RequestExistsError struct {
	Existing FriendRequest
	err      *AppError
}

// NewRequestExistsError builds the conflict for an already present request.
func NewRequestExistsError(existing FriendRequest) *RequestExistsError {
	return &RequestExistsError{
		Existing: existing,
		err:      NewConflictError("A friend request already exists between these users").WithReason(ErrRequestExists),
	}
}

func (e *RequestExistsError) Error() string {
	return fmt.Sprintf("%s (request %d, status %s)", e.err.Error(), e.Existing.ID, e.Existing.Status)
}

func (e *RequestExistsError) Unwrap() error {
	return e.err
}

// ErrorCode returns the AppError code found in err's chain, or CodePersistence for
// foreign errors.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodePersistence
}

// IsClientError reports whether err describes an invalid request rather than a failure
// to complete a valid one.
func IsClientError(err error) bool {
	switch ErrorCode(err) {
	case CodeNotFound, CodeValidation, CodeForbidden, CodeConflict:
		return true
	}
	return false
}

// StatusCode maps err onto the HTTP status an outer layer should answer with.
func StatusCode(err error) int {
	switch ErrorCode(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
