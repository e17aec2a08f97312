package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
)

// ChatRepository handles database operations for ChatMessage
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create inserts a new message
func (r *ChatRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindByID finds a message by ID with its sender
func (r *ChatRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetRoomMessages returns a page of messages, newest first, optionally before a cursor message
func (r *ChatRepository) GetRoomMessages(ctx context.Context, roomID uuid.UUID, before *uuid.UUID, limit int) ([]model.ChatMessage, error) {
	messages := []model.ChatMessage{}
	query := r.db.WithContext(ctx).
		Preload("User").
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit)

	if before != nil {
		var cursor model.ChatMessage
		if err := r.db.WithContext(ctx).Unscoped().Select("created_at").
			Where("id = ? AND room_id = ?", *before, roomID).
			First(&cursor).Error; err != nil {
			return nil, err
		}
		query = query.Where("created_at < ?", cursor.CreatedAt)
	}

	err := query.Find(&messages).Error
	return messages, err
}

// Delete soft-deletes a message
func (r *ChatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ChatMessage{}).Error
}
