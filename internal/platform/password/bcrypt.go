// Package password provides salted, adaptive password hashing backed by bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no stored hash exists so that
// unknown accounts cost the same bcrypt work as known ones.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hasher hashes and verifies passwords with a fixed bcrypt work factor.
// bcrypt generates a fresh salt per call and embeds it in the encoded hash.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, clamped into bcrypt's accepted range.
// A zero cost selects bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt encoding of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Compare reports whether plaintext matches storedHash.
// An empty storedHash is checked against a dummy hash and always fails.
func (h *Hasher) Compare(storedHash, plaintext string) bool {
	if storedHash == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
