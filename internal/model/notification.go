package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationType identifies what triggered a notification
type NotificationType string

const (
	NotificationRoomJoined     NotificationType = "room_joined"
	NotificationMatchInvite    NotificationType = "match_invite"
	NotificationMatchCompleted NotificationType = "match_completed"
)

// Notification is an in-app notification, also pushed to devices
type Notification struct {
	Base
	UserID uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Type   NotificationType `json:"type" gorm:"type:varchar(30);not null"`
	Title  string           `json:"title" gorm:"size:200;not null"`
	Body   string           `json:"body" gorm:"size:1000"`
	Data   datatypes.JSON   `json:"data" swaggertype:"object"`
	ReadAt *time.Time       `json:"read_at"`
}

// IsRead reports whether the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
