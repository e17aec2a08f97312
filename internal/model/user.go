package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthProvider defines how the user authenticates
type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "email"
	AuthProviderGoogle AuthProvider = "google"
)

// User is an account holder. Guests never get a row here.
type User struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	Name            string       `json:"name" gorm:"size:100;not null"`
	Email           string       `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password        string       `json:"-" gorm:"size:255"` // empty for Google accounts
	Avatar          string       `json:"avatar" gorm:"size:500;default:''"`
	AvatarKey       string       `json:"-" gorm:"size:500;default:''"` // object key in storage
	AuthProvider    AuthProvider `json:"auth_provider" gorm:"type:varchar(20);default:'email'"`
	GoogleID        *string      `json:"-" gorm:"uniqueIndex;size:255"`
	EmailVerifiedAt *time.Time   `json:"email_verified_at"`

	IsNotificationEnabled bool `json:"is_notification_enabled" gorm:"default:true"`

	IsOnline  bool           `json:"is_online" gorm:"default:false"`
	LastSeen  *time.Time     `json:"last_seen"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	newID(&u.ID)
	return nil
}

// IsEmailVerified checks if the user's email has been verified
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// UserResponse is the safe version of User for API responses
type UserResponse struct {
	ID                    uuid.UUID    `json:"id"`
	Name                  string       `json:"name"`
	Email                 string       `json:"email"`
	Avatar                string       `json:"avatar"`
	AuthProvider          AuthProvider `json:"auth_provider"`
	EmailVerified         bool         `json:"email_verified"`
	IsOnline              bool         `json:"is_online"`
	IsNotificationEnabled bool         `json:"is_notification_enabled"`
	LastSeen              *time.Time   `json:"last_seen"`
}

// ToResponse converts User to safe UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Name:                  u.Name,
		Email:                 u.Email,
		Avatar:                u.Avatar,
		AuthProvider:          u.AuthProvider,
		EmailVerified:         u.IsEmailVerified(),
		IsOnline:              u.IsOnline,
		IsNotificationEnabled: u.IsNotificationEnabled,
		LastSeen:              u.LastSeen,
	}
}

// PublicUser is the profile other users see (room members, match players)
type PublicUser struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

// Public strips everything but the display fields
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
