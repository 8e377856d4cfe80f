// Package adapters provides the repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"booking_backend/internal/feature/auth/domain/entity"
	"booking_backend/internal/feature/auth/usecase"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for a unique index conflict.
const pgUniqueViolation = "23505"

// PasswordHasher hashes plaintext passwords and checks them against stored hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(storedHash, plaintext string) bool
}

// userGorm is the GORM implementation of usecase.UserRepository.
// It works against both Postgres and SQLite.
type userGorm struct {
	db     *gorm.DB
	hasher PasswordHasher
}

// Verify at compile time that userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a userGorm backed by db that hashes credentials with hasher.
func NewUserGorm(db *gorm.DB, hasher PasswordHasher) *userGorm {
	return &userGorm{db: db, hasher: hasher}
}

// Create hashes the password and inserts a new user.
// The unique index on email makes the insert the uniqueness check, so concurrent
// registrations for one address yield exactly one row and usecase.ErrEmailAlreadyExists for the rest.
func (r *userGorm) Create(ctx context.Context, email, password, firstName, lastName string, role entity.Role) (*entity.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("create user: unknown role %q", role)
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, usecase.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// FindByEmail returns the user with the exact email, or usecase.ErrUserNotFound.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID returns the user with id, or usecase.ErrUserNotFound.
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// VerifyCredential compares plaintext against a stored bcrypt hash in constant time.
func (r *userGorm) VerifyCredential(storedHash, plaintext string) bool {
	return r.hasher.Compare(storedHash, plaintext)
}

// MarkEmailVerified sets email_verified for the user.
func (r *userGorm) MarkEmailVerified(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("email_verified", true)
	if res.Error != nil {
		return fmt.Errorf("mark email verified: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// isDuplicateKey recognises unique violations from GORM's error translation,
// from pgx directly, and from SQLite when translation is off.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
