package adapters

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"booking_backend/internal/feature/auth/domain/entity"
	"booking_backend/internal/feature/auth/usecase"
	"booking_backend/internal/platform/password"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

func openTestDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to initialize test database")

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&entity.User{}, &EmailVerificationModel{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func newTestUserRepo(t *testing.T) *userGorm {
	t.Helper()
	return NewUserGorm(setupTestDB(t), password.NewHasher(4))
}

func TestNewUserGorm(t *testing.T) {
	db := setupTestDB(t)
	hasher := password.NewHasher(4)

	repo := NewUserGorm(db, hasher)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
	assert.Same(t, hasher, repo.hasher)
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := newTestUserRepo(t)

		user, err := repo.Create(context.Background(), "a@b.com", "password1", "A", "B", entity.RoleCustomer)

		require.NoError(t, err, "failed to create user")
		assert.NotZero(t, user.ID, "ID is not set")
		assert.Equal(t, "a@b.com", user.Email)
		assert.Equal(t, "A", user.FirstName)
		assert.Equal(t, "B", user.LastName)
		assert.Equal(t, entity.RoleCustomer, user.Role)
		assert.False(t, user.EmailVerified)
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
		assert.False(t, user.UpdatedAt.IsZero(), "UpdatedAt is not set")
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		repo := newTestUserRepo(t)

		user, err := repo.Create(context.Background(), "hash@example.com", "password1", "A", "B", entity.RoleCustomer)
		require.NoError(t, err)

		var stored entity.User
		require.NoError(t, repo.db.First(&stored, user.ID).Error)
		assert.NotEqual(t, "password1", stored.PasswordHash)
		assert.False(t, strings.Contains(stored.PasswordHash, "password1"))
		assert.True(t, repo.VerifyCredential(stored.PasswordHash, "password1"))
	})

	t.Run("multi-word last name is kept intact", func(t *testing.T) {
		repo := newTestUserRepo(t)

		user, err := repo.Create(context.Background(), "vdb@example.com", "password1", "Anna", "van der Berg", entity.RoleAgent)
		require.NoError(t, err)

		found, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Anna", found.FirstName)
		assert.Equal(t, "van der Berg", found.LastName)
		assert.Equal(t, "Anna van der Berg", found.DisplayName())
		assert.Equal(t, entity.RoleAgent, found.Role)
	})

	t.Run("duplicate email error", func(t *testing.T) {
		repo := newTestUserRepo(t)

		_, err := repo.Create(context.Background(), "duplicate@example.com", "password1", "A", "B", entity.RoleCustomer)
		require.NoError(t, err, "failed to create first user")

		_, err = repo.Create(context.Background(), "duplicate@example.com", "password2", "C", "D", entity.RoleCustomer)

		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
	})

	t.Run("email uniqueness is case-sensitive", func(t *testing.T) {
		repo := newTestUserRepo(t)

		_, err := repo.Create(context.Background(), "case@example.com", "password1", "A", "B", entity.RoleCustomer)
		require.NoError(t, err)

		_, err = repo.Create(context.Background(), "Case@example.com", "password1", "A", "B", entity.RoleCustomer)
		assert.NoError(t, err)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		repo := newTestUserRepo(t)

		_, err := repo.Create(context.Background(), "role@example.com", "password1", "A", "B", entity.Role("owner"))

		assert.Error(t, err)
		var count int64
		repo.db.Model(&entity.User{}).Count(&count)
		assert.Zero(t, count)
	})
}

func TestUserGorm_Create_ConcurrentDuplicate(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "users.db"))
	repo := NewUserGorm(db, password.NewHasher(4))

	const attempts = 2
	var (
		wg   sync.WaitGroup
		errs = make([]error, attempts)
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(context.Background(), "race@example.com", "password1", "A", "B", entity.RoleCustomer)
		}(i)
	}
	wg.Wait()

	var succeeded, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists):
			duplicates++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, duplicates)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Where("email = ?", "race@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserGorm_FindByEmail(t *testing.T) {
	repo := newTestUserRepo(t)
	created, err := repo.Create(context.Background(), "find@example.com", "password1", "A", "B", entity.RoleCustomer)
	require.NoError(t, err)

	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{"existing email", "find@example.com", nil},
		{"unknown email", "missing@example.com", usecase.ErrUserNotFound},
		{"different case", "FIND@example.com", usecase.ErrUserNotFound},
		{"empty email", "", usecase.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := repo.FindByEmail(context.Background(), tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, user.ID)
			assert.NotEmpty(t, user.PasswordHash)
		})
	}
}

func TestUserGorm_FindByID(t *testing.T) {
	repo := newTestUserRepo(t)
	created, err := repo.Create(context.Background(), "id@example.com", "password1", "A", "B", entity.RoleAdmin)
	require.NoError(t, err)

	t.Run("existing id", func(t *testing.T) {
		user, err := repo.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "id@example.com", user.Email)
		assert.Equal(t, entity.RoleAdmin, user.Role)
	})

	t.Run("unknown id", func(t *testing.T) {
		user, err := repo.FindByID(context.Background(), created.ID+100)
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Nil(t, user)
	})
}

func TestUserGorm_VerifyCredential(t *testing.T) {
	repo := newTestUserRepo(t)
	user, err := repo.Create(context.Background(), "cred@example.com", "password1", "A", "B", entity.RoleCustomer)
	require.NoError(t, err)

	assert.True(t, repo.VerifyCredential(user.PasswordHash, "password1"))
	assert.False(t, repo.VerifyCredential(user.PasswordHash, "password2"))
	assert.False(t, repo.VerifyCredential("", "password1"))
}

func TestUserGorm_MarkEmailVerified(t *testing.T) {
	repo := newTestUserRepo(t)
	user, err := repo.Create(context.Background(), "verify@example.com", "password1", "A", "B", entity.RoleCustomer)
	require.NoError(t, err)

	t.Run("marks existing user", func(t *testing.T) {
		require.NoError(t, repo.MarkEmailVerified(context.Background(), user.ID))

		found, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, found.EmailVerified)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.MarkEmailVerified(context.Background(), user.ID+100)
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm duplicated key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other violation", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"other error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, isDuplicateKey(tt.err))
		})
	}
}
