package model

import (
	"errors"
	"fmt"
)

// ValidationError represents malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ConflictError represents a unique constraint or duplicate resource error
type ConflictError struct {
	Field   string
	Message string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}

// NewConflictError constructs ConflictError
func NewConflictError(field, message string) ConflictError {
	return ConflictError{Field: field, Message: message}
}

// IsConflictError checks if error is ConflictError
func IsConflictError(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Field   string
	Message string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found %s: %s", e.Field, e.Message)
}

// NewNotFoundError constructs NotFoundError
func NewNotFoundError(field, message string) NotFoundError {
	return NotFoundError{Field: field, Message: message}
}

// IsNotFoundError checks if error is NotFoundError
func IsNotFoundError(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// InvalidCredentialsError is returned by login for an unknown email or a wrong password.
// Both cases share one message so callers cannot probe for registered emails.
type InvalidCredentialsError struct{}

func (InvalidCredentialsError) Error() string { return "Invalid credentials" }

// IsInvalidCredentialsError checks if error is InvalidCredentialsError
func IsInvalidCredentialsError(err error) bool {
	var ie InvalidCredentialsError
	return errors.As(err, &ie)
}

// UnauthorizedError is returned when a bearer token is missing, malformed or expired.
type UnauthorizedError struct {
	Message string
}

func (e UnauthorizedError) Error() string { return e.Message }

// NewUnauthorizedError constructs UnauthorizedError
func NewUnauthorizedError(message string) UnauthorizedError {
	return UnauthorizedError{Message: message}
}

// IsUnauthorizedError checks if error is UnauthorizedError
func IsUnauthorizedError(err error) bool {
	var ue UnauthorizedError
	return errors.As(err, &ue)
}

// ForbiddenError is returned when an authenticated caller addresses another user's data.
type ForbiddenError struct {
	Message string
}

func (e ForbiddenError) Error() string { return e.Message }

// NewForbiddenError constructs ForbiddenError
func NewForbiddenError(message string) ForbiddenError {
	return ForbiddenError{Message: message}
}

// IsForbiddenError checks if error is ForbiddenError
func IsForbiddenError(err error) bool {
	var fe ForbiddenError
	return errors.As(err, &fe)
}

// UpstreamError wraps a failed call to the completion API.
// Details carries the upstream response body (or transport error) for diagnostics.
type UpstreamError struct {
	Message string
	Details string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstreamError checks if error is UpstreamError
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// AsUpstreamError extracts the UpstreamError from an error chain.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
