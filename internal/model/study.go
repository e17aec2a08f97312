package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups flashcards. Personal categories have a nil RoomID.
type Category struct {
	Base
	UserID uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	RoomID *uuid.UUID `json:"room_id,omitempty" gorm:"type:uuid;index"`
	Name   string     `json:"name" gorm:"size:100;not null"`
	Color  string     `json:"color" gorm:"size:20;default:''"`
}

// Flashcard is a front/back study card
type Flashcard struct {
	Base
	UserID         uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	RoomID         *uuid.UUID `json:"room_id,omitempty" gorm:"type:uuid;index"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty" gorm:"type:uuid;index"`
	Front          string     `json:"front" gorm:"type:text;not null"`
	Back           string     `json:"back" gorm:"type:text;not null"`
	TimesReviewed  int        `json:"times_reviewed" gorm:"default:0"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	Mastered       bool       `json:"mastered" gorm:"default:false"`
}
