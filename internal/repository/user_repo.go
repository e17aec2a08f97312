package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for User
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by UUID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers searches users by name or email (case-insensitive partial match)
func (r *UserRepository) SearchUsers(ctx context.Context, query string, excludeUserID uuid.UUID, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?) AND id <> ?", pattern, pattern, excludeUserID).
		Order("name ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// UpdateOnlineStatus sets a user's online status and last seen time
func (r *UserRepository) UpdateOnlineStatus(ctx context.Context, id uuid.UUID, isOnline bool) error {
	updates := map[string]interface{}{
		"is_online": isOnline,
	}
	if !isOnline {
		updates["last_seen"] = time.Now()
	}
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
}

// VerifyEmail marks user's email as verified
func (r *UserRepository) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("email_verified_at", time.Now()).Error
}

// UpdatePassword updates a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

// UpdateProfile applies the non-empty fields of req
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) error {
	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
		updates["avatar_key"] = req.AvatarKey
	}
	if req.IsNotificationEnabled != nil {
		updates["is_notification_enabled"] = *req.IsNotificationEnabled
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error
}

// AddDevice adds or refreshes a device token
func (r *UserRepository) AddDevice(ctx context.Context, userID uuid.UUID, token string, deviceType string) error {
	device := model.UserDevice{
		UserID:       userID,
		FCMToken:     token,
		DeviceType:   deviceType,
		LastActiveAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "fcm_token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_active_at": time.Now(),
			"device_type":    deviceType,
		}),
	}).Create(&device).Error
}

// GetUserDevices gets all devices for a user
func (r *UserRepository) GetUserDevices(ctx context.Context, userID uuid.UUID) ([]model.UserDevice, error) {
	var devices []model.UserDevice
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&devices).Error
	return devices, err
}

// RemoveDevices deletes device tokens FCM reported as unregistered
func (r *UserRepository) RemoveDevices(ctx context.Context, userID uuid.UUID, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND fcm_token IN ?", userID, tokens).
		Delete(&model.UserDevice{}).Error
}

// GetOrCreateGoogleUser finds a user by email or creates one from the Google profile
func (r *UserRepository) GetOrCreateGoogleUser(ctx context.Context, info model.GoogleUserInfo) (*model.User, error) {
	db := r.db.WithContext(ctx)
	var user model.User

	if err := db.Where("email = ?", strings.ToLower(info.Email)).First(&user).Error; err == nil {
		updates := map[string]interface{}{}

		if user.GoogleID == nil || *user.GoogleID != info.GoogleID {
			id := info.GoogleID
			updates["google_id"] = &id
			updates["auth_provider"] = model.AuthProviderGoogle
		}
		if !user.IsEmailVerified() && info.Verified {
			updates["email_verified_at"] = time.Now()
		}
		if user.Avatar == "" && info.Picture != "" {
			updates["avatar"] = info.Picture
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}

	googleID := info.GoogleID
	var verifiedAt *time.Time
	if info.Verified {
		now := time.Now()
		verifiedAt = &now
	}

	newUser := model.User{
		Email:                 strings.ToLower(info.Email),
		Name:                  info.Name,
		Avatar:                info.Picture,
		GoogleID:              &googleID,
		AuthProvider:          model.AuthProviderGoogle,
		EmailVerifiedAt:       verifiedAt,
		IsNotificationEnabled: true,
	}
	if err := db.Create(&newUser).Error; err != nil {
		return nil, err
	}
	return &newUser, nil
}
