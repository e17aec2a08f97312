package model

import (
	"encoding/json"
	"time"
)

// Guest* types mirror what the client kept on-device before sign-in.
// LocalID values are client generated and only used to link rows inside one import.

type GuestCategory struct {
	LocalID string `json:"local_id"`
	Name    string `json:"name" binding:"required,max=100"`
	Color   string `json:"color" binding:"max=20"`
}

type GuestFlashcard struct {
	CategoryLocalID string     `json:"category_local_id"`
	Front           string     `json:"front" binding:"required,max=2000"`
	Back            string     `json:"back" binding:"required,max=2000"`
	TimesReviewed   int        `json:"times_reviewed"`
	LastReviewedAt  *time.Time `json:"last_reviewed_at"`
	Mastered        bool       `json:"mastered"`
}

type GuestJournalEntry struct {
	Title     string    `json:"title" binding:"required,max=200"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood" binding:"max=20"`
	EntryDate time.Time `json:"entry_date" binding:"required"`
}

type GuestGoal struct {
	LocalID     string     `json:"local_id"`
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
}

type GuestTask struct {
	GoalLocalID string     `json:"goal_local_id"`
	Title       string     `json:"title" binding:"required,max=200"`
	Notes       string     `json:"notes"`
	DueAt       *time.Time `json:"due_at"`
	Completed   bool       `json:"completed"`
}

type GuestPreferences struct {
	Theme         string          `json:"theme" binding:"omitempty,oneof=light dark system"`
	AmbientSound  string          `json:"ambient_sound" binding:"max=50"`
	AmbientVolume *int            `json:"ambient_volume" binding:"omitempty,min=0,max=100"`
	Layout        json.RawMessage `json:"layout" swaggertype:"object"`
}

// ImportRequest is the body of POST /me/import
type ImportRequest struct {
	Categories       []GuestCategory                `json:"categories" binding:"omitempty,max=1000,dive"`
	Flashcards       []GuestFlashcard               `json:"flashcards" binding:"omitempty,max=10000,dive"`
	JournalEntries   []GuestJournalEntry            `json:"journal_entries" binding:"omitempty,max=5000,dive"`
	Goals            []GuestGoal                    `json:"goals" binding:"omitempty,max=1000,dive"`
	Tasks            []GuestTask                    `json:"tasks" binding:"omitempty,max=5000,dive"`
	PomodoroSettings *UpdatePomodoroSettingsRequest `json:"pomodoro_settings"`
	Preferences      *GuestPreferences              `json:"preferences"`
}

// ImportCount reports how many rows of one kind were inserted or matched
type ImportCount struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportResult is the per-kind outcome of an import
type ImportResult struct {
	Categories       ImportCount `json:"categories"`
	Flashcards       ImportCount `json:"flashcards"`
	JournalEntries   ImportCount `json:"journal_entries"`
	Goals            ImportCount `json:"goals"`
	Tasks            ImportCount `json:"tasks"`
	PomodoroSettings ImportCount `json:"pomodoro_settings"`
	Preferences      ImportCount `json:"preferences"`
}
