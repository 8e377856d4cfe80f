package entity

import "time"

// EmailVerification is a pending one-time code issued at registration.
// Only one pending code exists per user; it is removed once consumed.
type EmailVerification struct {
	UserID    uint      // Owner of the code
	Code      string    // 6-digit numeric code, leading zeros kept
	CreatedAt time.Time // Issue time
	ExpiresAt time.Time // Code is rejected after this instant
}

// IsExpired reports whether the code has passed its expiration time.
func (v *EmailVerification) IsExpired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
