package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository handles database operations for FlashMatch games
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Transaction runs fn with a repository bound to a single transaction
func (r *MatchRepository) Transaction(ctx context.Context, fn func(tx *MatchRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&MatchRepository{db: tx})
	})
}

// playerOrder ranks players by score, earliest joiner first on ties
func playerOrder(db *gorm.DB) *gorm.DB {
	return db.Order("score DESC").Order("joined_at ASC")
}

// ========== Matches ==========

// Create inserts a match together with its initial players
func (r *MatchRepository) Create(ctx context.Context, m *model.Match) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByID finds a match with ranked players
func (r *MatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Match, error) {
	var m model.Match
	err := r.db.WithContext(ctx).
		Preload("Players", playerOrder).
		Preload("Players.User").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByIDForUpdate locks the match row for the rest of the transaction and
// then loads it like FindByID. Responders and the sweeper take this lock so
// the last answer of a round always sees every earlier one.
func (r *MatchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Match, error) {
	var locked model.Match
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		First(&locked).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// ListByRoom returns the room's matches, newest first
func (r *MatchRepository) ListByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]model.Match, error) {
	matches := []model.Match{}
	err := r.db.WithContext(ctx).
		Preload("Players", playerOrder).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&matches).Error
	return matches, err
}

// ListForUser returns matches the user plays in, newest first
func (r *MatchRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Match, error) {
	matches := []model.Match{}
	err := r.db.WithContext(ctx).
		Preload("Players", playerOrder).
		Joins("JOIN match_players ON match_players.match_id = matches.id").
		Where("match_players.user_id = ?", userID).
		Order("matches.created_at DESC").
		Limit(limit).
		Find(&matches).Error
	return matches, err
}

// Start moves a lobby match to in_progress on round 1
func (r *MatchRepository) Start(ctx context.Context, matchID uuid.UUID, totalRounds int, startedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("id = ? AND status = ?", matchID, model.MatchStatusLobby).
		Updates(map[string]interface{}{
			"status":        model.MatchStatusInProgress,
			"total_rounds":  totalRounds,
			"current_round": 1,
			"started_at":    startedAt,
		})
	return res.RowsAffected > 0, res.Error
}

// AdvanceRound moves current_round from `from` to from+1. Only one caller
// can win for a given `from`.
func (r *MatchRepository) AdvanceRound(ctx context.Context, matchID uuid.UUID, from int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("id = ? AND status = ? AND current_round = ?", matchID, model.MatchStatusInProgress, from).
		Update("current_round", from+1)
	return res.RowsAffected > 0, res.Error
}

// Complete finishes an in_progress match that is still on round `from`
func (r *MatchRepository) Complete(ctx context.Context, matchID uuid.UUID, from int, winnerID *uuid.UUID, completedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("id = ? AND status = ? AND current_round = ?", matchID, model.MatchStatusInProgress, from).
		Updates(map[string]interface{}{
			"status":       model.MatchStatusCompleted,
			"completed_at": completedAt,
			"winner_id":    winnerID,
		})
	return res.RowsAffected > 0, res.Error
}

// DeleteLobby removes a match that has not started yet
func (r *MatchRepository) DeleteLobby(ctx context.Context, matchID uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND status = ?", matchID, model.MatchStatusLobby).Delete(&model.Match{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("match_id = ?", matchID).Delete(&model.MatchPlayer{}).Error
	})
	return deleted, err
}

// ========== Players ==========

func (r *MatchRepository) AddPlayer(ctx context.Context, p *model.MatchPlayer) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *MatchRepository) RemovePlayer(ctx context.Context, matchID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("match_id = ? AND user_id = ?", matchID, userID).
		Delete(&model.MatchPlayer{}).Error
}

// ListPlayers returns players ranked by score
func (r *MatchRepository) ListPlayers(ctx context.Context, matchID uuid.UUID) ([]model.MatchPlayer, error) {
	players := []model.MatchPlayer{}
	err := playerOrder(r.db.WithContext(ctx).Preload("User").Where("match_id = ?", matchID)).
		Find(&players).Error
	return players, err
}

// AddScore increments a player's score
func (r *MatchRepository) AddScore(ctx context.Context, matchID, userID uuid.UUID, points int) error {
	return r.db.WithContext(ctx).Model(&model.MatchPlayer{}).
		Where("match_id = ? AND user_id = ?", matchID, userID).
		Update("score", gorm.Expr("score + ?", points)).Error
}

// ========== Rounds ==========

func (r *MatchRepository) CreateRounds(ctx context.Context, rounds []model.Round) error {
	if len(rounds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rounds).Error
}

// GetRound finds a round by its number within a match
func (r *MatchRepository) GetRound(ctx context.Context, matchID uuid.UUID, number int) (*model.Round, error) {
	var round model.Round
	err := r.db.WithContext(ctx).
		Where("match_id = ? AND number = ?", matchID, number).
		First(&round).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// ListRounds returns all rounds of a match in order
func (r *MatchRepository) ListRounds(ctx context.Context, matchID uuid.UUID) ([]model.Round, error) {
	rounds := []model.Round{}
	err := r.db.WithContext(ctx).Where("match_id = ?", matchID).Order("number ASC").Find(&rounds).Error
	return rounds, err
}

// ActivateRound opens a pending round
func (r *MatchRepository) ActivateRound(ctx context.Context, roundID uuid.UUID, startedAt, endsAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Round{}).
		Where("id = ? AND status = ?", roundID, model.RoundStatusPending).
		Updates(map[string]interface{}{
			"status":     model.RoundStatusActive,
			"started_at": startedAt,
			"ends_at":    endsAt,
		})
	return res.RowsAffected > 0, res.Error
}

// CloseRound moves an active round to completed or expired
func (r *MatchRepository) CloseRound(ctx context.Context, roundID uuid.UUID, status model.RoundStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Round{}).
		Where("id = ? AND status = ?", roundID, model.RoundStatusActive).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}

// ListExpiredRounds returns active rounds whose deadline has passed
func (r *MatchRepository) ListExpiredRounds(ctx context.Context, now time.Time, limit int) ([]model.Round, error) {
	rounds := []model.Round{}
	err := r.db.WithContext(ctx).
		Where("status = ? AND ends_at <= ?", model.RoundStatusActive, now).
		Order("ends_at ASC").
		Limit(limit).
		Find(&rounds).Error
	return rounds, err
}

// ========== Answers ==========

func (r *MatchRepository) CreateAnswer(ctx context.Context, a *model.Answer) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// HasAnswered reports whether the user already answered or passed a round
func (r *MatchRepository) HasAnswered(ctx context.Context, roundID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Answer{}).
		Where("round_id = ? AND user_id = ?", roundID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *MatchRepository) CountAnswers(ctx context.Context, roundID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Answer{}).Where("round_id = ?", roundID).Count(&count).Error
	return count, err
}

// ListAnswers returns a round's answers in submission order
func (r *MatchRepository) ListAnswers(ctx context.Context, roundID uuid.UUID) ([]model.Answer, error) {
	answers := []model.Answer{}
	err := r.db.WithContext(ctx).Where("round_id = ?", roundID).Order("created_at ASC").Find(&answers).Error
	return answers, err
}
