package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"booking_backend/internal/feature/auth/domain/entity"
	"booking_backend/internal/feature/auth/usecase"
)

// EmailVerificationModel is the row layout of a pending verification code.
type EmailVerificationModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	Code      string    `gorm:"size:6;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (EmailVerificationModel) TableName() string {
	return "email_verifications"
}

func (m *EmailVerificationModel) toEntity() *entity.EmailVerification {
	return &entity.EmailVerification{
		UserID:    m.UserID,
		Code:      m.Code,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

// verificationGorm stores pending verification codes in the relational store.
type verificationGorm struct {
	db *gorm.DB
}

var _ usecase.VerificationRepository = (*verificationGorm)(nil)

// NewVerificationGorm creates a verificationGorm backed by db.
func NewVerificationGorm(db *gorm.DB) *verificationGorm {
	return &verificationGorm{db: db}
}

// Save stores v, replacing any pending code for the same user.
func (r *verificationGorm) Save(ctx context.Context, v *entity.EmailVerification) error {
	m := EmailVerificationModel{
		UserID:    v.UserID,
		Code:      v.Code,
		ExpiresAt: v.ExpiresAt.UTC(),
		CreatedAt: v.CreatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "created_at"}),
		}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("save verification code: %w", err)
	}
	return nil
}

// FindByUserID returns the pending code for userID, or usecase.ErrVerificationNotFound.
func (r *verificationGorm) FindByUserID(ctx context.Context, userID uint) (*entity.EmailVerification, error) {
	var m EmailVerificationModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrVerificationNotFound
		}
		return nil, err
	}
	return m.toEntity(), nil
}

// Delete removes the pending code for userID. Deleting a missing code is not an error.
func (r *verificationGorm) Delete(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&EmailVerificationModel{}).Error; err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}

// DeleteExpired removes codes whose expiry is before now and reports how many were removed.
// Timestamps are kept in UTC so SQLite's textual comparison stays ordered.
func (r *verificationGorm) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&EmailVerificationModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired verification codes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
