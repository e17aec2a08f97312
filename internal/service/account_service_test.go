package service

import (
	"context"
	"testing"

	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountDeletion(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	svc := NewAccountService(repository.NewAccountRepository(f.db), repository.NewUserRepository(f.db), f.objects, f.svc)

	resp := f.register(t, "gone@example.com")
	userID := resp.User.ID
	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", userID).Update("avatar_key", "avatars/2026/01/gone.png").Error)

	friend := createUser(t, f.db, "friend")
	room := createRoom(t, f.db, &model.User{ID: userID}, friend)
	require.NoError(t, f.db.Create(&model.Flashcard{UserID: userID, Front: "Q", Back: "A"}).Error)
	require.NoError(t, f.db.Create(&model.ChatMessage{RoomID: room.ID, UserID: friend.ID, Content: "hello"}).Error)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(ctx, userID, claims, resp.Token))

	var users int64
	require.NoError(t, f.db.Unscoped().Model(&model.User{}).Where("id = ?", userID).Count(&users).Error)
	assert.Zero(t, users)

	var cards int64
	require.NoError(t, f.db.Model(&model.Flashcard{}).Where("user_id = ?", userID).Count(&cards).Error)
	assert.Zero(t, cards)

	var rooms int64
	require.NoError(t, f.db.Model(&model.Room{}).Where("owner_id = ?", userID).Count(&rooms).Error)
	assert.Zero(t, rooms, "owned rooms go with the owner")

	assert.Equal(t, []string{"avatars/2026/01/gone.png"}, f.objects.deleted)

	revoked, err := f.blacklist.IsRevoked(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	err = svc.DeleteAccount(ctx, userID, claims, resp.Token)
	assert.True(t, model.IsErrorCode(err, model.ErrCodeNotFound))
}
