package verification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking_backend/internal/feature/auth/domain/entity"
	"booking_backend/internal/feature/auth/usecase"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*VerificationRedis, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewVerificationRedis(rdb, "verification")
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func createTestVerification(userID uint, code string, expiresIn time.Duration) *entity.EmailVerification {
	return &entity.EmailVerification{
		UserID:    userID,
		Code:      code,
		CreatedAt: fixedNow,
		ExpiresAt: fixedNow.Add(expiresIn),
	}
}

func TestNewVerificationRedis(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	tests := []struct {
		name           string
		prefix         string
		expectedPrefix string
	}{
		{"custom prefix", "verify", "verify"},
		{"default prefix", "", "verification"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewVerificationRedis(rdb, tt.prefix)
			assert.NotNil(t, repo.client, "client is nil")
			assert.Equal(t, tt.expectedPrefix, repo.prefix)
		})
	}
}

func TestVerificationRedis_Save(t *testing.T) {
	t.Parallel()

	t.Run("success: stores with remaining lifetime as TTL", func(t *testing.T) {
		t.Parallel()
		repo, mock := newTestRepo(t)

		v := createTestVerification(1, "012345", 24*time.Hour)
		data, err := json.Marshal(v)
		require.NoError(t, err)
		mock.ExpectSet("verification:user:1", data, 24*time.Hour).SetVal("OK")

		require.NoError(t, repo.Save(context.Background(), v))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure: already expired", func(t *testing.T) {
		t.Parallel()
		repo, mock := newTestRepo(t)

		err := repo.Save(context.Background(), createTestVerification(1, "012345", -time.Minute))

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet(), "nothing should be written")
	})

	t.Run("failure: redis error", func(t *testing.T) {
		t.Parallel()
		repo, mock := newTestRepo(t)

		v := createTestVerification(2, "654321", time.Hour)
		data, _ := json.Marshal(v)
		mock.ExpectSet("verification:user:2", data, time.Hour).SetErr(errors.New("connection refused"))

		err := repo.Save(context.Background(), v)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVerificationRedis_FindByUserID(t *testing.T) {
	t.Parallel()

	t.Run("success: round trips the code", func(t *testing.T) {
		t.Parallel()
		repo, mock := newTestRepo(t)

		v := createTestVerification(5, "000042", time.Hour)
		data, _ := json.Marshal(v)
		mock.ExpectGet("verification:user:5").SetVal(string(data))

		found, err := repo.FindByUserID(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, "000042", found.Code)
		assert.Equal(t, uint(5), found.UserID)
		assert.True(t, v.ExpiresAt.Equal(found.ExpiresAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure: missing key", func(t *testing.T) {
		t.Parallel()
		repo, mock := newTestRepo(t)

		mock.ExpectGet("verification:user:6").RedisNil()

		found, err := repo.FindByUserID(context.Background(), 6)

		assert.ErrorIs(t, err, usecase.ErrVerificationNotFound)
		assert.Nil(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure: corrupted payload", func(t *testing.T) {
		t.Parallel()
		repo, mock := newTestRepo(t)

		mock.ExpectGet("verification:user:7").SetVal("not json")

		_, err := repo.FindByUserID(context.Background(), 7)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, usecase.ErrVerificationNotFound)
	})

	t.Run("failure: redis error", func(t *testing.T) {
		t.Parallel()
		repo, mock := newTestRepo(t)

		redisErr := errors.New("connection refused")
		mock.ExpectGet("verification:user:8").SetErr(redisErr)

		_, err := repo.FindByUserID(context.Background(), 8)

		assert.ErrorIs(t, err, redisErr)
	})
}

func TestVerificationRedis_Delete(t *testing.T) {
	t.Parallel()

	repo, mock := newTestRepo(t)
	mock.ExpectDel("verification:user:9").SetVal(1)

	assert.NoError(t, repo.Delete(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}
