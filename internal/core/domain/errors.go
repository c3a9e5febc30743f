package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserInactive       = errors.New("user account is inactive")
)

// Checkout lifecycle errors
var (
	ErrCheckoutNotFound = errors.New("checkout not found")
	ErrAlreadyReturned  = errors.New("checkout already returned")
)

// Request errors
var (
	ErrRequestNotFound         = errors.New("request not found")
	ErrRequestAlreadyConverted = errors.New("request already converted into a checkout")
)

// Catalog errors
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrBoxNotFound   = errors.New("box not found")
	ErrGroupNotFound = errors.New("group not found")
)

// ValidationError is returned when client input violates a rule. The message
// is safe to show to the user and never wraps a store failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
