// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication operations.
// These errors represent business logic failures and are mapped to HTTP statuses by the transport layer.
var (
	// ErrMissingFields indicates that a required registration or verification field is empty.
	ErrMissingFields = errors.New("please provide all required fields")

	// ErrInvalidEmail indicates that the email is not syntactically valid.
	ErrInvalidEmail = errors.New("please provide a valid email address")

	// ErrWeakPassword indicates that the password is shorter than the minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters long")

	// ErrPasswordTooLong indicates that the password exceeds bcrypt's 72-byte input limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes long")

	// ErrInvalidRole indicates that a requested role is not one of customer, agent or admin.
	ErrInvalidRole = errors.New("role must be one of customer, agent, admin")

	// ErrMissingCredentials indicates that email or password was not supplied at login.
	ErrMissingCredentials = errors.New("please provide email and password")

	// ErrInvalidCredentials indicates that the provided credentials are incorrect.
	// It is returned both for unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidVerificationCode covers unknown email, missing, mismatched and expired codes alike.
	ErrInvalidVerificationCode = errors.New("invalid verification code")

	// ErrEmailAlreadyVerified indicates that the account has already confirmed its email.
	ErrEmailAlreadyVerified = errors.New("email is already verified")
)

// ValidationError marks client input that failed validation before any store access.
// Err is one of ErrMissingFields, ErrInvalidEmail, ErrWeakPassword, ErrPasswordTooLong or ErrInvalidRole.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err as a ValidationError.
func NewValidationError(err error) error {
	return &ValidationError{Err: err}
}
