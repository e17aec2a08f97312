package notification

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/repository"
	"google.golang.org/api/option"
)

// PushService delivers notifications to a user's devices through FCM
type PushService struct {
	client   *messaging.Client
	userRepo *repository.UserRepository
}

// NewPushService creates a new FCM push service. It returns nil when
// credentials are missing or invalid; a nil service drops every push.
func NewPushService(ctx context.Context, credentialsFile string, userRepo *repository.UserRepository) *PushService {
	if credentialsFile == "" {
		slog.Warn("firebase credentials not provided, push notifications disabled")
		return nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		slog.Warn("failed to initialize firebase app, push notifications disabled", "error", err)
		return nil
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		slog.Warn("failed to get messaging client, push notifications disabled", "error", err)
		return nil
	}

	slog.Info("firebase FCM initialized")
	return &PushService{
		client:   client,
		userRepo: userRepo,
	}
}

// Push sends a notification to every registered device of the user.
// Tokens FCM reports as unregistered are removed.
func (s *PushService) Push(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) error {
	if s == nil || s.client == nil {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsNotificationEnabled {
		return nil
	}

	devices, err := s.userRepo.GetUserDevices(ctx, userID)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.FCMToken)
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	br, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	if br.FailureCount > 0 {
		var stale []string
		for idx, resp := range br.Responses {
			if resp.Success {
				continue
			}
			if messaging.IsUnregistered(resp.Error) {
				stale = append(stale, tokens[idx])
				continue
			}
			slog.WarnContext(ctx, "FCM delivery failed", "user_id", userID, "error", resp.Error)
		}
		if err := s.userRepo.RemoveDevices(ctx, userID, stale); err != nil {
			return fmt.Errorf("remove stale tokens: %w", err)
		}
	}

	return nil
}
