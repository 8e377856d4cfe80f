// Package entity defines the domain entities for the auth feature.
package entity

import (
	"strings"
	"time"
)

// User represents a registered account.
// It contains authentication credentials and profile data used by the booking app.
type User struct {
	// ID is the unique identifier for the user, assigned by the store.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users and is compared case-sensitively.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the bcrypt encoding of the password, salt included.
	// Plaintext passwords are never stored.
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`

	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`

	// Role drives route authorization. Defaults to customer.
	Role Role `gorm:"size:16;not null;default:customer"`

	// EmailVerified is set once a verification code has been confirmed.
	EmailVerified bool `gorm:"not null;default:false"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}

// DisplayName joins first and last name the way the UI shows it.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
