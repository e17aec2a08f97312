package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchStatus moves strictly lobby -> in_progress -> completed
type MatchStatus string

const (
	MatchStatusLobby      MatchStatus = "lobby"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// Match is a FlashMatch game
type Match struct {
	Base
	RoomID       *uuid.UUID  `json:"room_id,omitempty" gorm:"type:uuid;index"`
	HostID       uuid.UUID   `json:"host_id" gorm:"type:uuid;not null;index"`
	CategoryID   *uuid.UUID  `json:"category_id,omitempty" gorm:"type:uuid"`
	Status       MatchStatus `json:"status" gorm:"type:varchar(20);not null;default:'lobby';index"`
	TotalRounds  int         `json:"total_rounds" gorm:"not null"`
	CurrentRound int         `json:"current_round" gorm:"default:0"`
	RoundSeconds int         `json:"round_seconds" gorm:"not null"`
	StartedAt    *time.Time  `json:"started_at"`
	CompletedAt  *time.Time  `json:"completed_at"`
	WinnerID     *uuid.UUID  `json:"winner_id,omitempty" gorm:"type:uuid"`

	// Relations
	Players []MatchPlayer `json:"players,omitempty" gorm:"foreignKey:MatchID"`
}

// MatchPlayer is a participant and their running score
type MatchPlayer struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	MatchID  uuid.UUID `json:"match_id" gorm:"type:uuid;uniqueIndex:idx_match_user;not null"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_match_user;not null;index"`
	Score    int       `json:"score" gorm:"default:0"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}

func (p *MatchPlayer) BeforeCreate(*gorm.DB) error {
	newID(&p.ID)
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	return nil
}

// RoundStatus tracks a single question. Rounds are created pending when the
// match starts and activated one at a time.
type RoundStatus string

const (
	RoundStatusPending   RoundStatus = "pending"
	RoundStatusActive    RoundStatus = "active"
	RoundStatusCompleted RoundStatus = "completed"
	RoundStatusExpired   RoundStatus = "expired"
)

// Round is one flashcard question within a match
type Round struct {
	Base
	MatchID     uuid.UUID   `json:"match_id" gorm:"type:uuid;not null;uniqueIndex:idx_match_round"`
	Number      int         `json:"number" gorm:"not null;uniqueIndex:idx_match_round"`
	FlashcardID *uuid.UUID  `json:"flashcard_id,omitempty" gorm:"type:uuid"`
	Question    string      `json:"question" gorm:"type:text;not null"`
	Answer      string      `json:"answer,omitempty" gorm:"type:text;not null"`
	Status      RoundStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	StartedAt   *time.Time  `json:"started_at"`
	EndsAt      *time.Time  `json:"ends_at" gorm:"index"`
}

// IsOpen reports whether the round still accepts answers at t
func (r *Round) IsOpen(t time.Time) bool {
	return r.Status == RoundStatusActive && r.EndsAt != nil && t.Before(*r.EndsAt)
}

// Answer is a player's response to a round. Passed answers have empty Text.
type Answer struct {
	Base
	RoundID  uuid.UUID `json:"round_id" gorm:"type:uuid;not null;uniqueIndex:idx_round_user"`
	MatchID  uuid.UUID `json:"match_id" gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_round_user;index"`
	Text     string    `json:"text" gorm:"type:text"`
	Accuracy float64   `json:"accuracy"`
	Correct  bool      `json:"correct"`
	Passed   bool      `json:"passed"`
	Points   int       `json:"points"`
}
