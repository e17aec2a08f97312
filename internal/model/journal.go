package model

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry is a dated personal note
type JournalEntry struct {
	Base
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_journal_user_date"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	Mood      string    `json:"mood" gorm:"size:20;default:''"`
	EntryDate time.Time `json:"entry_date" gorm:"not null;index:idx_journal_user_date"`
}
