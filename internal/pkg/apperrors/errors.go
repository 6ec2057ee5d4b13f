package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
)

// User errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameExists      = errors.New("username already exists")
	ErrEmailExists         = errors.New("email already exists")
	ErrUserNotVerified     = errors.New("account not verified")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
	ErrReferrerNotFound    = errors.New("referrer not found")
	ErrReferrerNotEligible = errors.New("referrer must hold the regular badge")
	ErrInvalidBadge        = errors.New("invalid badge")
)

// Run errors
var (
	ErrRunNotFound      = errors.New("run not found")
	ErrRunCompleted     = errors.New("run already completed")
	ErrRunAtCapacity    = errors.New("run is at capacity")
	ErrInvalidRSVP      = errors.New("status must be confirmed, interested, or out")
	ErrLocationNotFound = errors.New("location not found")
)

// CustomError carries a user-facing message on top of a sentinel error.
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates a validation error with a descriptive message.
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewNotFoundError creates a not-found error with a descriptive message.
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewForbiddenError creates a permission error with a descriptive message.
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}
