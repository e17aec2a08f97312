package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferencesRepository handles database operations for UserPreferences
type PreferencesRepository struct {
	db *gorm.DB
}

func NewPreferencesRepository(db *gorm.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Get returns the saved preferences, or gorm.ErrRecordNotFound
func (r *PreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (*model.UserPreferences, error) {
	var p model.UserPreferences
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert inserts or overwrites the user's preferences row
func (r *PreferencesRepository) Upsert(ctx context.Context, p *model.UserPreferences) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"theme", "ambient_sound", "ambient_volume", "layout", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return err
	}
	var saved model.UserPreferences
	if err := r.db.WithContext(ctx).Where("user_id = ?", p.UserID).First(&saved).Error; err != nil {
		return err
	}
	*p = saved
	return nil
}

// CreateIfAbsent inserts preferences only when the user has none
func (r *PreferencesRepository) CreateIfAbsent(ctx context.Context, p *model.UserPreferences) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(p)
	return res.RowsAffected > 0, res.Error
}
