package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	userID uuid.UUID
	title  string
	data   map[string]string
}

type fakePusher struct {
	sent chan pushed
}

func (p *fakePusher) Push(_ context.Context, userID uuid.UUID, title, _ string, data map[string]string) error {
	p.sent <- pushed{userID: userID, title: title, data: data}
	return nil
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	publisher := &recordingPublisher{}
	pusher := &fakePusher{sent: make(chan pushed, 10)}
	svc := NewNotificationService(repository.NewNotificationRepository(db), publisher, pusher)

	user := createUser(t, db, "reader")
	other := createUser(t, db, "other")

	n, err := svc.Notify(ctx, user.ID, model.NotificationRoomJoined, "New member", "bob joined", map[string]string{"room_id": "r1"})
	require.NoError(t, err)

	select {
	case p := <-pusher.sent:
		assert.Equal(t, user.ID, p.userID)
		assert.Equal(t, "New member", p.title)
		assert.Equal(t, "r1", p.data["room_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("push was not sent")
	}
	assert.Len(t, publisher.ofType(model.WSEventNotification), 1)

	svc.NotifyMany(ctx, []uuid.UUID{user.ID, user.ID}, model.NotificationMatchInvite, "Invite", "join us", nil)

	list, err := svc.List(ctx, user.ID, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, maxNotificationLimit, list.Limit)
	assert.Len(t, list.Notifications, 3)
	assert.Equal(t, int64(3), list.UnreadCount)

	err = svc.MarkRead(ctx, other.ID, n.ID)
	assert.True(t, model.IsErrorCode(err, model.ErrCodeNotFound), "cannot touch another user's notification")

	require.NoError(t, svc.MarkRead(ctx, user.ID, n.ID))
	changed, err := svc.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	list, err = svc.List(ctx, user.ID, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, list.UnreadCount)
	assert.Equal(t, defaultNotificationLimit, list.Limit)

	require.NoError(t, svc.Delete(ctx, user.ID, n.ID))
	assert.True(t, model.IsErrorCode(svc.Delete(ctx, user.ID, n.ID), model.ErrCodeNotFound))
}
