package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
)

// JournalRepository handles database operations for JournalEntry
type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Create(ctx context.Context, e *model.JournalEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *JournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.JournalEntry, error) {
	var e model.JournalEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns a user's entries in [from, to), newest first. Zero bounds are open.
func (r *JournalRepository) List(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.JournalEntry, error) {
	entries := []model.JournalEntry{}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("entry_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("entry_date < ?", to)
	}
	err := q.Order("entry_date DESC, created_at DESC").Find(&entries).Error
	return entries, err
}

// ExistsOnDay reports whether the user has an entry with this title on the given UTC day
func (r *JournalRepository) ExistsOnDay(ctx context.Context, userID uuid.UUID, day time.Time, title string) (bool, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	var count int64
	err := r.db.WithContext(ctx).Model(&model.JournalEntry{}).
		Where("user_id = ? AND title = ? AND entry_date >= ? AND entry_date < ?",
			userID, title, start, start.Add(24*time.Hour)).
		Count(&count).Error
	return count > 0, err
}

func (r *JournalRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.JournalEntry{}).Where("id = ?", id).Updates(updates).Error
}

func (r *JournalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.JournalEntry{}).Error
}
