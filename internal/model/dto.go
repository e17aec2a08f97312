package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ========== Auth DTOs ==========

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"` // Google ID token from frontend
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type OTPSentResponse struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	ExpiresIn int    `json:"expires_in"` // seconds until code expires
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type GoogleUserInfo struct {
	GoogleID string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Verified bool   `json:"email_verified"`
}

type UpdateProfileRequest struct {
	Name                  string `json:"name" binding:"max=100"`
	Avatar                string `json:"avatar" binding:"max=500"`
	AvatarKey             string `json:"-"`
	IsNotificationEnabled *bool  `json:"is_notification_enabled"`
}

type RegisterDeviceRequest struct {
	FCMToken   string `json:"fcm_token" binding:"required"`
	DeviceType string `json:"device_type" binding:"required,oneof=android ios web"`
}

// ========== Room DTOs ==========

type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	IsPrivate   *bool  `json:"is_private"`
	MaxMembers  int    `json:"max_members" binding:"omitempty,min=2,max=500"`
}

type UpdateRoomRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsPrivate   *bool   `json:"is_private"`
	MaxMembers  *int    `json:"max_members" binding:"omitempty,min=2,max=500"`
}

type JoinRoomRequest struct {
	InviteCode string `json:"invite_code" binding:"required,min=4,max=16"`
}

type JoinRoomResponse struct {
	Room   Room `json:"room"`
	Joined bool `json:"joined"` // false when the caller was already a member
}

// ========== Flashcard DTOs ==========

type CreateCategoryRequest struct {
	Name   string     `json:"name" binding:"required,min=1,max=100"`
	Color  string     `json:"color" binding:"max=20"`
	RoomID *uuid.UUID `json:"room_id"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color *string `json:"color" binding:"omitempty,max=20"`
}

type CreateFlashcardRequest struct {
	Front      string     `json:"front" binding:"required,min=1,max=2000"`
	Back       string     `json:"back" binding:"required,min=1,max=2000"`
	CategoryID *uuid.UUID `json:"category_id"`
	RoomID     *uuid.UUID `json:"room_id"`
}

type UpdateFlashcardRequest struct {
	Front      *string    `json:"front" binding:"omitempty,min=1,max=2000"`
	Back       *string    `json:"back" binding:"omitempty,min=1,max=2000"`
	CategoryID *uuid.UUID `json:"category_id"`
	Mastered   *bool      `json:"mastered"`
}

type ReviewFlashcardRequest struct {
	Mastered *bool `json:"mastered"`
}

// FlashcardFilter narrows a flashcard listing
type FlashcardFilter struct {
	CategoryID *uuid.UUID
	RoomID     *uuid.UUID
	Mastered   *bool
}

// ========== Journal DTOs ==========

type CreateJournalEntryRequest struct {
	Title     string     `json:"title" binding:"required,min=1,max=200"`
	Content   string     `json:"content"`
	Mood      string     `json:"mood" binding:"max=20"`
	EntryDate *time.Time `json:"entry_date"` // defaults to today
}

type UpdateJournalEntryRequest struct {
	Title     *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Content   *string    `json:"content"`
	Mood      *string    `json:"mood" binding:"omitempty,max=20"`
	EntryDate *time.Time `json:"entry_date"`
}

// ========== Planner DTOs ==========

type CreateGoalRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Progress    int        `json:"progress"`
}

type UpdateGoalRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Progress    *int       `json:"progress"`
	Completed   *bool      `json:"completed"`
}

type CreateTaskRequest struct {
	Title  string     `json:"title" binding:"required,min=1,max=200"`
	Notes  string     `json:"notes"`
	DueAt  *time.Time `json:"due_at"`
	GoalID *uuid.UUID `json:"goal_id"`
}

type UpdateTaskRequest struct {
	Title     *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Notes     *string    `json:"notes"`
	DueAt     *time.Time `json:"due_at"`
	GoalID    *uuid.UUID `json:"goal_id"`
	Completed *bool      `json:"completed"`
}

// ========== Pomodoro DTOs ==========

type UpdatePomodoroSettingsRequest struct {
	FocusMinutes            int  `json:"focus_minutes" binding:"required,min=1,max=180"`
	ShortBreakMinutes       int  `json:"short_break_minutes" binding:"required,min=1,max=180"`
	LongBreakMinutes        int  `json:"long_break_minutes" binding:"required,min=1,max=180"`
	SessionsBeforeLongBreak int  `json:"sessions_before_long_break" binding:"required,min=1,max=12"`
	AutoStart               bool `json:"auto_start"`
}

type RecordSessionRequest struct {
	Kind            SessionKind `json:"kind" binding:"required,oneof=focus short_break long_break"`
	StartedAt       time.Time   `json:"started_at" binding:"required"`
	DurationSeconds int         `json:"duration_seconds" binding:"required,min=1,max=43200"`
	RoomID          *uuid.UUID  `json:"room_id"`
}

// ========== Preferences DTOs ==========

type UpdatePreferencesRequest struct {
	Theme         *string         `json:"theme" binding:"omitempty,oneof=light dark system"`
	AmbientSound  *string         `json:"ambient_sound" binding:"omitempty,max=50"`
	AmbientVolume *int            `json:"ambient_volume" binding:"omitempty,min=0,max=100"`
	Layout        json.RawMessage `json:"layout" swaggertype:"object"`
}

// ========== Notification DTOs ==========

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
}

// ========== Chat DTOs ==========

type SendChatMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type ChatListRequest struct {
	Before string `form:"before"` // cursor for pagination (message ID)
	Limit  int    `form:"limit,default=50"`
}

// ========== WebSocket Event DTOs ==========

type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket event types
const (
	WSEventChange          = "change"
	WSEventNotification    = "notification"
	WSEventTyping          = "typing"
	WSEventStopTyping      = "stop_typing"
	WSEventOnline          = "online"
	WSEventOffline         = "offline"
	WSEventSubscribeRoom   = "subscribe_room"
	WSEventUnsubscribeRoom = "unsubscribe_room"
	WSEventSubscribed      = "subscribed"
	WSEventError           = "error"

	WSEventMatchUpdated    = "match_updated"
	WSEventRoundStarted    = "round_started"
	WSEventAnswerSubmitted = "answer_submitted"
	WSEventMatchCompleted  = "match_completed"
	WSEventMatchCancelled  = "match_cancelled"
)

// Change actions carried by ChangeEvent
const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// ChangeEvent tells subscribers that a row changed
type ChangeEvent struct {
	Table  string      `json:"table"`
	Action string      `json:"action"`
	RoomID *uuid.UUID  `json:"room_id,omitempty"`
	Record interface{} `json:"record"`
}

type RoomEventPayload struct {
	RoomID uuid.UUID `json:"room_id"`
}

type TypingEvent struct {
	RoomID uuid.UUID `json:"room_id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}

type OnlineEvent struct {
	UserID   uuid.UUID `json:"user_id"`
	IsOnline bool      `json:"is_online"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// UploadResponse is returned after a successful file upload
type UploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}
