package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"gorm.io/datatypes"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// Pusher delivers device push notifications. *notification.PushService implements it.
type Pusher interface {
	Push(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) error
}

// NotificationService stores in-app notifications and fans them out over the
// hub and FCM
type NotificationService struct {
	repo      *repository.NotificationRepository
	publisher Publisher
	pusher    Pusher
}

func NewNotificationService(repo *repository.NotificationRepository, publisher Publisher, pusher Pusher) *NotificationService {
	return &NotificationService{
		repo:      repo,
		publisher: publisherOrNop(publisher),
		pusher:    pusher,
	}
}

// Notify saves a notification, sends it over the hub and pushes it to the
// user's devices in the background
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, kind model.NotificationType, title, body string, data map[string]string) (*model.Notification, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal notification data: %w", err)
	}

	n := &model.Notification{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Body:   body,
		Data:   datatypes.JSON(raw),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.publisher.SendToUser(userID, &model.WSEvent{Type: model.WSEventNotification, Payload: n})

	if s.pusher != nil {
		pushCtx := context.WithoutCancel(ctx)
		go func() {
			if err := s.pusher.Push(pushCtx, userID, title, body, data); err != nil {
				slog.Warn("push notification failed", "user_id", userID, "type", kind, "error", err)
			}
		}()
	}
	return n, nil
}

// NotifyMany sends the same notification to several users. Failures are logged, not returned.
func (s *NotificationService) NotifyMany(ctx context.Context, userIDs []uuid.UUID, kind model.NotificationType, title, body string, data map[string]string) {
	for _, userID := range userIDs {
		if _, err := s.Notify(ctx, userID, kind, title, body, data); err != nil {
			slog.ErrorContext(ctx, "failed to notify user", "user_id", userID, "type", kind, "error", err)
		}
	}
}

// List returns a page of notifications, unread first
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, page, limit int) (*model.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	items, err := s.repo.List(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}

	return &model.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

// MarkRead marks one of the user's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return model.NewInternalError(err)
	}
	if !ok {
		return model.NewNotFoundError("Notification", id)
	}
	publishChange(s.publisher, userID, nil, "notifications", model.ChangeUpdate, recordRef{ID: id})
	return nil
}

// MarkAllRead marks every unread notification read and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, model.NewInternalError(err)
	}
	return n, nil
}

// Delete removes one of the user's notifications
func (s *NotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return model.NewInternalError(err)
	}
	if !ok {
		return model.NewNotFoundError("Notification", id)
	}
	publishChange(s.publisher, userID, nil, "notifications", model.ChangeDelete, recordRef{ID: id})
	return nil
}
