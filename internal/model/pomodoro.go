package model

import (
	"time"

	"github.com/google/uuid"
)

// Default pomodoro timings, used until a user saves their own
const (
	DefaultFocusMinutes            = 25
	DefaultShortBreakMinutes       = 5
	DefaultLongBreakMinutes        = 15
	DefaultSessionsBeforeLongBreak = 4
)

// PomodoroSettings holds a user's timer configuration
type PomodoroSettings struct {
	Base
	UserID                  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	FocusMinutes            int       `json:"focus_minutes" gorm:"not null"`
	ShortBreakMinutes       int       `json:"short_break_minutes" gorm:"not null"`
	LongBreakMinutes        int       `json:"long_break_minutes" gorm:"not null"`
	SessionsBeforeLongBreak int       `json:"sessions_before_long_break" gorm:"not null"`
	AutoStart               bool      `json:"auto_start" gorm:"default:false"`
}

// DefaultPomodoroSettings returns the unsaved defaults for a user
func DefaultPomodoroSettings(userID uuid.UUID) *PomodoroSettings {
	return &PomodoroSettings{
		UserID:                  userID,
		FocusMinutes:            DefaultFocusMinutes,
		ShortBreakMinutes:       DefaultShortBreakMinutes,
		LongBreakMinutes:        DefaultLongBreakMinutes,
		SessionsBeforeLongBreak: DefaultSessionsBeforeLongBreak,
	}
}

// SessionKind is the phase a pomodoro session covered
type SessionKind string

const (
	SessionKindFocus      SessionKind = "focus"
	SessionKindShortBreak SessionKind = "short_break"
	SessionKindLongBreak  SessionKind = "long_break"
)

// PomodoroSession is one completed timer phase
type PomodoroSession struct {
	Base
	UserID          uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index"`
	RoomID          *uuid.UUID  `json:"room_id,omitempty" gorm:"type:uuid;index"`
	Kind            SessionKind `json:"kind" gorm:"type:varchar(20);not null"`
	StartedAt       time.Time   `json:"started_at" gorm:"not null;index"`
	DurationSeconds int         `json:"duration_seconds" gorm:"not null"`
}

// PomodoroDay is the focus total for one day of the summary
type PomodoroDay struct {
	Date         string `json:"date"`
	FocusMinutes int    `json:"focus_minutes"`
	Sessions     int    `json:"sessions"`
}

// PomodoroSummary aggregates focus sessions over a window of days
type PomodoroSummary struct {
	Days              int           `json:"days"`
	TotalFocusMinutes int           `json:"total_focus_minutes"`
	TotalSessions     int           `json:"total_sessions"`
	Daily             []PomodoroDay `json:"daily"`
}
