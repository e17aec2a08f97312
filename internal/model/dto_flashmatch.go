package model

import (
	"time"

	"github.com/google/uuid"
)

type CreateMatchRequest struct {
	RoomID       *uuid.UUID `json:"room_id"`
	CategoryID   *uuid.UUID `json:"category_id"`
	TotalRounds  int        `json:"total_rounds" binding:"omitempty,min=1,max=20"`
	RoundSeconds int        `json:"round_seconds" binding:"omitempty,min=5,max=120"`
}

type SubmitAnswerRequest struct {
	Round  int    `json:"round" binding:"required,min=1"`
	Answer string `json:"answer" binding:"required,max=2000"`
}

type PassRoundRequest struct {
	Round int `json:"round" binding:"required,min=1"`
}

// PlayerScore is one scoreboard line
type PlayerScore struct {
	UserID   uuid.UUID  `json:"user_id"`
	User     PublicUser `json:"user"`
	Score    int        `json:"score"`
	JoinedAt time.Time  `json:"joined_at"`
}

// MatchView is the scoreboard returned to players. The current round's
// answer is blanked while the round is still active.
type MatchView struct {
	Match        Match         `json:"match"`
	Players      []PlayerScore `json:"players"`
	CurrentRound *Round        `json:"current_round,omitempty"`
	Answered     int           `json:"answered"` // answers in the current round
}

// AnswerResult is returned from submit and pass
type AnswerResult struct {
	Answer         Answer `json:"answer"`
	CorrectAnswer  string `json:"correct_answer"`
	RoundCompleted bool   `json:"round_completed"`
	MatchCompleted bool   `json:"match_completed"`
}

// RoundResult is a finished round with everyone's answers
type RoundResult struct {
	Round   Round    `json:"round"`
	Answers []Answer `json:"answers"`
}

// AnswerSubmittedEvent is published without the answer text
type AnswerSubmittedEvent struct {
	MatchID  uuid.UUID `json:"match_id"`
	Round    int       `json:"round"`
	UserID   uuid.UUID `json:"user_id"`
	Passed   bool      `json:"passed"`
	Answered int       `json:"answered"`
	Players  int       `json:"players"`
}

// RoundStartedEvent announces the next question
type RoundStartedEvent struct {
	MatchID  uuid.UUID `json:"match_id"`
	Round    int       `json:"round"`
	Total    int       `json:"total"`
	Question string    `json:"question"`
	EndsAt   time.Time `json:"ends_at"`
}

// MatchCompletedEvent carries the final standings
type MatchCompletedEvent struct {
	MatchID  uuid.UUID     `json:"match_id"`
	WinnerID *uuid.UUID    `json:"winner_id"`
	Players  []PlayerScore `json:"players"`
}
