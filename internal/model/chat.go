package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is a message posted in a room
type ChatMessage struct {
	Base
	RoomID    uuid.UUID      `json:"room_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}
