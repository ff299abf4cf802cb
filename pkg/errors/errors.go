package errors

import (
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrAlreadyExists      = NewAlreadyExistsError("resource", "resource already exists")
	ErrInvalidCredentials = NewInvalidCredentialsError("invalid credentials")
	ErrInternal           = NewInternalError("internal server error", nil)
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status code for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// AlreadyExistsError represents a resource already exists error.
// Sign-up with a duplicate email surfaces this; the original contract maps
// it to 401 Unauthorized rather than 409 Conflict.
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// InvalidCredentialsError represents a failed sign-in attempt. The message
// distinguishes an unknown email from a wrong password even though both map
// to the same status code.
type InvalidCredentialsError struct {
	Message string
}

// NewInvalidCredentialsError creates a new invalid credentials error
func NewInvalidCredentialsError(message string) *InvalidCredentialsError {
	return &InvalidCredentialsError{Message: message}
}

// Error implements the error interface
func (e *InvalidCredentialsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid credentials"
}

// HTTPStatus returns the HTTP status code for this error
func (e *InvalidCredentialsError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// ConflictError represents a storage-level uniqueness violation. It is an
// internal signal: the auth flow translates it before it reaches a caller.
type ConflictError struct {
	Resource string
	Message  string
	Err      error
}

// NewConflictError creates a new conflict error
func NewConflictError(resource, message string, err error) *ConflictError {
	return &ConflictError{
		Resource: resource,
		Message:  message,
		Err:      err,
	}
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s conflict", e.Resource)
}

// Unwrap returns the wrapped error
func (e *ConflictError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *ConflictError) HTTPStatus() int {
	return http.StatusConflict
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser interface for errors that can provide an HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
}
