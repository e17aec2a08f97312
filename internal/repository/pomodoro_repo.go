package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PomodoroRepository handles database operations for pomodoro settings and sessions
type PomodoroRepository struct {
	db *gorm.DB
}

func NewPomodoroRepository(db *gorm.DB) *PomodoroRepository {
	return &PomodoroRepository{db: db}
}

// GetSettings returns the saved settings, or gorm.ErrRecordNotFound
func (r *PomodoroRepository) GetSettings(ctx context.Context, userID uuid.UUID) (*model.PomodoroSettings, error) {
	var s model.PomodoroSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSettings inserts or overwrites the user's settings row
func (r *PomodoroRepository) UpsertSettings(ctx context.Context, s *model.PomodoroSettings) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"focus_minutes", "short_break_minutes", "long_break_minutes",
			"sessions_before_long_break", "auto_start", "updated_at",
		}),
	}).Create(s).Error
	if err != nil {
		return err
	}
	var saved model.PomodoroSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", s.UserID).First(&saved).Error; err != nil {
		return err
	}
	*s = saved
	return nil
}

// CreateSettingsIfAbsent inserts settings only when the user has none. It
// reports whether a row was written.
func (r *PomodoroRepository) CreateSettingsIfAbsent(ctx context.Context, s *model.PomodoroSettings) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(s)
	return res.RowsAffected > 0, res.Error
}

// CreateSession records a finished timer phase
func (r *PomodoroRepository) CreateSession(ctx context.Context, s *model.PomodoroSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// ListSessions returns the most recent sessions for a user
func (r *PomodoroRepository) ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]model.PomodoroSession, error) {
	sessions := []model.PomodoroSession{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// FocusSessionsSince returns focus sessions started at or after since, oldest first
func (r *PomodoroRepository) FocusSessionsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.PomodoroSession, error) {
	sessions := []model.PomodoroSession{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND started_at >= ?", userID, model.SessionKindFocus, since).
		Order("started_at ASC").
		Find(&sessions).Error
	return sessions, err
}
