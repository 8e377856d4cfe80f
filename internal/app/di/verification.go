// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "booking_backend/internal/feature/auth/adapters"
	"booking_backend/internal/feature/auth/usecase"
	"booking_backend/internal/platform/verification"
)

// Verification store choices for VERIFICATION_STORE.
const (
	StoreRedis = "redis"
	StoreSQL   = "sql"
)

// ExpiredSweeper is implemented by stores whose expired codes must be purged
// explicitly. Redis keys expire on their own and do not implement it.
type ExpiredSweeper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// NewVerificationRepository picks where pending verification codes live.
// An explicit "sql" always uses the database. Otherwise Redis is used when a
// client is available, falling back to the database.
func NewVerificationRepository(store string, rdb *redis.Client, db *gorm.DB) usecase.VerificationRepository {
	if store != StoreSQL && rdb != nil {
		return verification.NewVerificationRedis(rdb, "verification")
	}
	if store == StoreRedis {
		slog.Warn("VERIFICATION_STORE=redis but Redis is unavailable; using the database")
	}
	return authadapters.NewVerificationGorm(db)
}

// SweepExpired deletes expired codes every interval until ctx is done.
func SweepExpired(ctx context.Context, s ExpiredSweeper, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.DeleteExpired(ctx, now)
			if err != nil {
				slog.Error("sweeping expired verification codes failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("swept expired verification codes", "count", n)
			}
		}
	}
}
