// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("user with this email already exists")

	// ErrVerificationNotFound is returned when no pending verification code exists for a user.
	ErrVerificationNotFound = errors.New("verification code not found")
)
