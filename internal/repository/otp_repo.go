package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
)

// OTPRepository handles database operations for OTP codes
type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create inserts a new OTP code
func (r *OTPRepository) Create(ctx context.Context, otp *model.OTPCode) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

// FindLatestOTP finds the newest code matching user, code and purpose.
// Callers check OTPCode.IsValid before accepting it.
func (r *OTPRepository) FindLatestOTP(ctx context.Context, userID uuid.UUID, code string, purpose model.OTPPurpose) (*model.OTPCode, error) {
	var otp model.OTPCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND purpose = ?", userID, code, purpose).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// MarkAsUsed consumes a code. It returns false when the code was already used.
func (r *OTPRepository) MarkAsUsed(ctx context.Context, otpID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.OTPCode{}).
		Where("id = ? AND used_at IS NULL", otpID).
		Update("used_at", time.Now())
	return res.RowsAffected == 1, res.Error
}

// InvalidateAllForUser burns every pending code of a purpose, done before sending a new one
func (r *OTPRepository) InvalidateAllForUser(ctx context.Context, userID uuid.UUID, purpose model.OTPPurpose) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.OTPCode{}).
		Where("user_id = ? AND purpose = ? AND used_at IS NULL AND expires_at > ?", userID, purpose, now).
		Update("used_at", now).Error
}

// CleanupExpired removes codes that expired before cutoff, used or not
func (r *OTPRepository) CleanupExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&model.OTPCode{})
	return res.RowsAffected, res.Error
}

// CountRecentOTPs counts how many codes were sent to a user since a point in time
func (r *OTPRepository) CountRecentOTPs(ctx context.Context, userID uuid.UUID, purpose model.OTPPurpose, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OTPCode{}).
		Where("user_id = ? AND purpose = ? AND created_at > ?", userID, purpose, since).
		Count(&count).Error
	return count, err
}
