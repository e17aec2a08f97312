package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserPreferences stores UI choices that follow the user across devices
type UserPreferences struct {
	Base
	UserID        uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Theme         string         `json:"theme" gorm:"size:20;not null"`
	AmbientSound  string         `json:"ambient_sound" gorm:"size:50"`
	AmbientVolume int            `json:"ambient_volume" gorm:"not null"`
	Layout        datatypes.JSON `json:"layout" swaggertype:"object"`
}

// ValidTheme reports whether t is a supported theme
func ValidTheme(t string) bool {
	switch t {
	case "light", "dark", "system":
		return true
	}
	return false
}

// DefaultPreferences returns the unsaved defaults for a user
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:        userID,
		Theme:         "system",
		AmbientVolume: 50,
		Layout:        datatypes.JSON("{}"),
	}
}
