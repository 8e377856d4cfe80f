// Package verification stores pending email verification codes in Redis.
package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"booking_backend/internal/feature/auth/domain/entity"
	"booking_backend/internal/feature/auth/usecase"
)

// VerificationRedis implements usecase.VerificationRepository using Redis.
// Each code lives under its own key and expires with it, so no sweeper is needed.
type VerificationRedis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ usecase.VerificationRepository = (*VerificationRedis)(nil)

// NewVerificationRedis creates a new VerificationRedis instance.
func NewVerificationRedis(client *redis.Client, prefix string) *VerificationRedis {
	if prefix == "" {
		prefix = "verification"
	}
	return &VerificationRedis{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// codeKey returns the Redis key for a user's pending code.
func (r *VerificationRedis) codeKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

// Save stores v until its expiry, replacing any pending code for the user.
func (r *VerificationRedis) Save(ctx context.Context, v *entity.EmailVerification) error {
	ttl := v.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("verification code already expired")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal verification code: %w", err)
	}

	if err := r.client.Set(ctx, r.codeKey(v.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

// FindByUserID returns the pending code, or usecase.ErrVerificationNotFound once it is consumed or expired.
func (r *VerificationRedis) FindByUserID(ctx context.Context, userID uint) (*entity.EmailVerification, error) {
	data, err := r.client.Get(ctx, r.codeKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrVerificationNotFound
		}
		return nil, err
	}

	var v entity.EmailVerification
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification code: %w", err)
	}

	return &v, nil
}

// Delete removes the pending code for userID.
func (r *VerificationRedis) Delete(ctx context.Context, userID uint) error {
	return r.client.Del(ctx, r.codeKey(userID)).Err()
}
