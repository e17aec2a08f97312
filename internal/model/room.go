package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomRole defines the role of a member in a room
type RoomRole string

const (
	RoomRoleOwner  RoomRole = "owner"
	RoomRoleMember RoomRole = "member"
)

// Room is a shared space that scopes flashcards, chat and matches to a group
type Room struct {
	Base
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"size:500"`
	OwnerID     uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	InviteCode  string         `json:"invite_code" gorm:"size:16;uniqueIndex;not null"`
	IsPrivate   bool           `json:"is_private" gorm:"not null"`
	MaxMembers  int            `json:"max_members" gorm:"default:20"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Members     []RoomMember `json:"members,omitempty" gorm:"foreignKey:RoomID"`
	MemberCount int64        `json:"member_count" gorm:"-"` // populated manually
}

// RoomMember is a user's membership in a room
type RoomMember struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RoomID   uuid.UUID `json:"room_id" gorm:"type:uuid;uniqueIndex:idx_room_user;not null"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_room_user;not null;index"`
	Role     RoomRole  `json:"role" gorm:"type:varchar(20);default:'member'"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}

func (m *RoomMember) BeforeCreate(*gorm.DB) error {
	newID(&m.ID)
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}
