package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
)

// CategoryRepository handles database operations for Category
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindPersonalByName finds one of the user's personal categories by name
func (r *CategoryRepository) FindPersonalByName(ctx context.Context, userID uuid.UUID, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id IS NULL AND name = ?", userID, name).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListPersonal returns the user's own categories
func (r *CategoryRepository) ListPersonal(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id IS NULL", userID).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

// ListByRoom returns the categories shared in a room
func (r *CategoryRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a category and detaches its flashcards
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Flashcard{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Category{}).Error
	})
}

// FlashcardRepository handles database operations for Flashcard
type FlashcardRepository struct {
	db *gorm.DB
}

func NewFlashcardRepository(db *gorm.DB) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

func (r *FlashcardRepository) Create(ctx context.Context, f *model.Flashcard) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FlashcardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Flashcard, error) {
	var f model.Flashcard
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns flashcards visible under filter. Without a room filter only
// the user's personal cards are returned.
func (r *FlashcardRepository) List(ctx context.Context, userID uuid.UUID, filter model.FlashcardFilter) ([]model.Flashcard, error) {
	cards := []model.Flashcard{}
	q := r.db.WithContext(ctx).Model(&model.Flashcard{})
	if filter.RoomID != nil {
		q = q.Where("room_id = ?", *filter.RoomID)
	} else {
		q = q.Where("user_id = ? AND room_id IS NULL", userID)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Mastered != nil {
		q = q.Where("mastered = ?", *filter.Mastered)
	}
	err := q.Order("created_at DESC").Find(&cards).Error
	return cards, err
}

// ListForMatch returns the deck a match draws from: cards in the category
// when one is set, otherwise the host's personal cards plus the room's cards.
func (r *FlashcardRepository) ListForMatch(ctx context.Context, hostID uuid.UUID, roomID, categoryID *uuid.UUID) ([]model.Flashcard, error) {
	cards := []model.Flashcard{}
	q := r.db.WithContext(ctx).Model(&model.Flashcard{})
	switch {
	case categoryID != nil:
		q = q.Where("category_id = ?", *categoryID)
	case roomID != nil:
		q = q.Where("(user_id = ? AND room_id IS NULL) OR room_id = ?", hostID, *roomID)
	default:
		q = q.Where("user_id = ? AND room_id IS NULL", hostID)
	}
	err := q.Order("created_at ASC").Find(&cards).Error
	return cards, err
}

// ExistsPersonal reports whether the user already has a personal card with this content
func (r *FlashcardRepository) ExistsPersonal(ctx context.Context, userID uuid.UUID, front, back string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Flashcard{}).
		Where("user_id = ? AND room_id IS NULL AND front = ? AND back = ?", userID, front, back).
		Count(&count).Error
	return count > 0, err
}

func (r *FlashcardRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Flashcard{}).Where("id = ?", id).Updates(updates).Error
}

// RecordReview bumps the review counter and optionally sets mastery
func (r *FlashcardRepository) RecordReview(ctx context.Context, id uuid.UUID, mastered *bool) error {
	updates := map[string]interface{}{
		"times_reviewed":   gorm.Expr("times_reviewed + 1"),
		"last_reviewed_at": time.Now(),
	}
	if mastered != nil {
		updates["mastered"] = *mastered
	}
	return r.db.WithContext(ctx).Model(&model.Flashcard{}).Where("id = ?", id).Updates(updates).Error
}

func (r *FlashcardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Flashcard{}).Error
}
