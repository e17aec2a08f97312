package model

import (
	"time"

	"github.com/google/uuid"
)

// Goal is a long-running objective with a progress percentage
type Goal struct {
	Base
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description string     `json:"description" gorm:"type:text"`
	TargetDate  *time.Time `json:"target_date"`
	Progress    int        `json:"progress" gorm:"default:0"` // 0..100
	Completed   bool       `json:"completed" gorm:"default:false"`
}

// Task is a to-do item, optionally attached to a goal
type Task struct {
	Base
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	GoalID      *uuid.UUID `json:"goal_id,omitempty" gorm:"type:uuid;index"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Notes       string     `json:"notes" gorm:"type:text"`
	DueAt       *time.Time `json:"due_at"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
}

// CalendarDay buckets everything that falls on one date
type CalendarDay struct {
	Date           string         `json:"date"` // YYYY-MM-DD
	Tasks          []Task         `json:"tasks"`
	Goals          []Goal         `json:"goals"`
	JournalEntries []JournalEntry `json:"journal_entries"`
}
