package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
)

const (
	defaultChatLimit = 50
	maxChatLimit     = 100
)

// ChatService handles room chat
type ChatService struct {
	chatRepo  *repository.ChatRepository
	roomRepo  *repository.RoomRepository
	publisher Publisher
}

func NewChatService(
	chatRepo *repository.ChatRepository,
	roomRepo *repository.RoomRepository,
	publisher Publisher,
) *ChatService {
	return &ChatService{
		chatRepo:  chatRepo,
		roomRepo:  roomRepo,
		publisher: publisherOrNop(publisher),
	}
}

// ListMessages returns messages newest first. before is a message ID cursor.
func (s *ChatService) ListMessages(ctx context.Context, roomID, userID uuid.UUID, before *uuid.UUID, limit int) ([]model.ChatMessage, error) {
	if err := requireMember(ctx, s.roomRepo, roomID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultChatLimit
	}
	if limit > maxChatLimit {
		limit = maxChatLimit
	}

	messages, err := s.chatRepo.GetRoomMessages(ctx, roomID, before, limit)
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewValidationError("unknown cursor message")
		}
		return nil, model.NewInternalError(err)
	}
	return messages, nil
}

// SendMessage posts a message to a room the sender belongs to
func (s *ChatService) SendMessage(ctx context.Context, roomID, userID uuid.UUID, req model.SendChatMessageRequest) (*model.ChatMessage, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.NewValidationError("message cannot be empty")
	}
	if n := len([]rune(content)); n > 2000 {
		return nil, model.NewValidationError("message cannot exceed 2000 characters")
	}
	if err := requireMember(ctx, s.roomRepo, roomID, userID); err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{RoomID: roomID, UserID: userID, Content: content}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("create message: %w", err))
	}

	saved, err := s.chatRepo.FindByID(ctx, msg.ID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, &roomID, "chat_messages", model.ChangeInsert, saved)
	return saved, nil
}

// DeleteMessage removes a message. Only its author may delete it.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID, userID uuid.UUID) error {
	msg, err := s.chatRepo.FindByID(ctx, messageID)
	if err != nil {
		return lookupError(err, "Message", messageID)
	}
	if msg.UserID != userID {
		return model.NewForbiddenError("you can only delete your own messages")
	}
	if err := s.chatRepo.Delete(ctx, messageID); err != nil {
		return model.NewInternalError(err)
	}

	roomID := msg.RoomID
	publishChange(s.publisher, userID, &roomID, "chat_messages", model.ChangeDelete, recordRef{ID: messageID})
	return nil
}

// Typing relays a typing indicator to the other subscribers of a room
func (s *ChatService) Typing(ctx context.Context, roomID, userID uuid.UUID, name string, typing bool) error {
	if err := requireMember(ctx, s.roomRepo, roomID, userID); err != nil {
		return err
	}
	eventType := model.WSEventTyping
	if !typing {
		eventType = model.WSEventStopTyping
	}
	s.publisher.SendToRoom(roomID, &model.WSEvent{
		Type:    eventType,
		Payload: model.TypingEvent{RoomID: roomID, UserID: userID, Name: name},
	})
	return nil
}

// CanSubscribe reports whether a user may follow a room's change feed
func (s *ChatService) CanSubscribe(ctx context.Context, roomID, userID uuid.UUID) error {
	return requireMember(ctx, s.roomRepo, roomID, userID)
}
