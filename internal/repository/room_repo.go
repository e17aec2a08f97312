package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
)

// RoomRepository handles database operations for Room and RoomMember
type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create creates a room together with its initial members
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// FindByID finds a room by ID with members
func (r *RoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC") }).
		Preload("Members.User").
		Where("id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	room.MemberCount = int64(len(room.Members))
	return &room, nil
}

// FindByInviteCode finds a room by its invite code
func (r *RoomRepository) FindByInviteCode(ctx context.Context, code string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetUserRooms returns all rooms a user belongs to, most recently updated first
func (r *RoomRepository) GetUserRooms(ctx context.Context, userID uuid.UUID) ([]model.Room, error) {
	rooms := []model.Room{}
	err := r.db.WithContext(ctx).
		Joins("JOIN room_members ON room_members.room_id = rooms.id").
		Where("room_members.user_id = ?", userID).
		Order("rooms.updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		count, err := r.CountMembers(ctx, rooms[i].ID)
		if err != nil {
			return nil, err
		}
		rooms[i].MemberCount = count
	}
	return rooms, nil
}

// Update saves changed room columns
func (r *RoomRepository) Update(ctx context.Context, roomID uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Room{}).Where("id = ?", roomID).Updates(updates).Error
}

// Delete removes a room and everything scoped to it
func (r *RoomRepository) Delete(ctx context.Context, roomID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRooms(tx, []uuid.UUID{roomID})
	})
}

// AddMember adds a user to a room
func (r *RoomRepository) AddMember(ctx context.Context, member *model.RoomMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// RemoveMember deletes a membership
func (r *RoomRepository) RemoveMember(ctx context.Context, roomID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&model.RoomMember{}).Error
}

// GetMember returns a user's membership in a room
func (r *RoomRepository) GetMember(ctx context.Context, roomID, userID uuid.UUID) (*model.RoomMember, error) {
	var member model.RoomMember
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// IsMember checks if a user is a member of a room
func (r *RoomRepository) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountMembers returns how many members a room has
func (r *RoomRepository) CountMembers(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RoomMember{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

// ListMembers returns a room's members with their user records
func (r *RoomRepository) ListMembers(ctx context.Context, roomID uuid.UUID) ([]model.RoomMember, error) {
	members := []model.RoomMember{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

// GetMemberIDs returns the user IDs of all members of a room
func (r *RoomRepository) GetMemberIDs(ctx context.Context, roomID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.RoomMember{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &ids).Error
	return ids, err
}
