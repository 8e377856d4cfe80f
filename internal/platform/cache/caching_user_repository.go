// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"booking_backend/internal/feature/auth/domain/entity"
	"booking_backend/internal/feature/auth/usecase"
)

// CachingUserRepository decorates a UserRepository with a Redis profile cache.
// Only FindByID is cached; it serves profile reads such as GET /api/auth/me.
// Cached users never carry the password hash, so credential checks must go
// through FindByEmail, which always reads the store.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingUserRepository) Create(ctx context.Context, email, password, firstName, lastName string, role entity.Role) (*entity.User, error) {
	return c.inner.Create(ctx, email, password, firstName, lastName, role)
}

func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

func (c *CachingUserRepository) VerifyCredential(storedHash, plaintext string) bool {
	return c.inner.VerifyCredential(storedHash, plaintext)
}

// FindByID retrieves a user, checking cache first then falling back to the store.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	k := c.cacheKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, k).Bytes(); err == nil && len(b) > 0 {
		var u entity.User
		if err := json.Unmarshal(b, &u); err == nil {
			return &u, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, k).Err()
	}

	// 2) Fallback to store
	u, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort); PasswordHash is tagged json:"-"
	if b, err := json.Marshal(u); err == nil {
		_ = c.rdb.Set(ctx, k, b, c.ttl).Err()
	}

	return u, nil
}

// MarkEmailVerified updates the store and drops the cached profile.
func (c *CachingUserRepository) MarkEmailVerified(ctx context.Context, id uint) error {
	if err := c.inner.MarkEmailVerified(ctx, id); err != nil {
		return err
	}
	if c.rdb != nil {
		_ = c.rdb.Del(ctx, c.cacheKey(id)).Err() // Best effort: entry also expires via TTL
	}
	return nil
}

func (c *CachingUserRepository) cacheKey(id uint) string {
	return key(c.namespace, "id", id)
}
