package service

import (
	"context"
	"strings"
	"testing"

	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	publisher := &recordingPublisher{}
	rooms := repository.NewRoomRepository(db)
	notifications := NewNotificationService(repository.NewNotificationRepository(db), publisher, nil)
	svc := NewRoomService(rooms, repository.NewUserRepository(db), notifications, publisher)

	owner := createUser(t, db, "owner")
	joiner := createUser(t, db, "joiner")
	late := createUser(t, db, "late")

	t.Run("CreateAssignsInviteCode", func(t *testing.T) {
		room, err := svc.CreateRoom(ctx, owner.ID, model.CreateRoomRequest{Name: "  Algebra  "})
		require.NoError(t, err)
		assert.Equal(t, "Algebra", room.Name)
		assert.Len(t, room.InviteCode, inviteCodeLength)
		assert.Equal(t, defaultMaxMembers, room.MaxMembers)
		assert.True(t, room.IsPrivate)
		assert.Equal(t, int64(1), room.MemberCount)
	})

	t.Run("JoinByCode", func(t *testing.T) {
		room, err := svc.CreateRoom(ctx, owner.ID, model.CreateRoomRequest{Name: "Physics"})
		require.NoError(t, err)

		res, err := svc.JoinRoom(ctx, joiner.ID, model.JoinRoomRequest{InviteCode: strings.ToLower(room.InviteCode)})
		require.NoError(t, err)
		assert.True(t, res.Joined)
		assert.Equal(t, int64(2), res.Room.MemberCount)

		res, err = svc.JoinRoom(ctx, joiner.ID, model.JoinRoomRequest{InviteCode: room.InviteCode})
		require.NoError(t, err)
		assert.False(t, res.Joined, "already a member")

		var joined int64
		require.NoError(t, db.Model(&model.Notification{}).
			Where("user_id = ? AND type = ?", owner.ID, model.NotificationRoomJoined).Count(&joined).Error)
		assert.Equal(t, int64(1), joined)
		assert.NotEmpty(t, publisher.changes("room_members"))
	})

	t.Run("FullRoomRejected", func(t *testing.T) {
		room, err := svc.CreateRoom(ctx, owner.ID, model.CreateRoomRequest{Name: "Tiny", MaxMembers: 2})
		require.NoError(t, err)
		_, err = svc.JoinRoom(ctx, joiner.ID, model.JoinRoomRequest{InviteCode: room.InviteCode})
		require.NoError(t, err)

		_, err = svc.JoinRoom(ctx, late.ID, model.JoinRoomRequest{InviteCode: room.InviteCode})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeConflict))
	})

	t.Run("UnknownCode", func(t *testing.T) {
		_, err := svc.JoinRoom(ctx, joiner.ID, model.JoinRoomRequest{InviteCode: "NOPE2345"})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeNotFound))
	})

	t.Run("OwnerCannotLeave", func(t *testing.T) {
		room, err := svc.CreateRoom(ctx, owner.ID, model.CreateRoomRequest{Name: "Chemistry"})
		require.NoError(t, err)

		err = svc.LeaveRoom(ctx, room.ID, owner.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))
	})

	t.Run("OnlyOwnerRemovesMembers", func(t *testing.T) {
		room, err := svc.CreateRoom(ctx, owner.ID, model.CreateRoomRequest{Name: "Biology"})
		require.NoError(t, err)
		_, err = svc.JoinRoom(ctx, joiner.ID, model.JoinRoomRequest{InviteCode: room.InviteCode})
		require.NoError(t, err)
		_, err = svc.JoinRoom(ctx, late.ID, model.JoinRoomRequest{InviteCode: room.InviteCode})
		require.NoError(t, err)

		err = svc.RemoveMember(ctx, room.ID, joiner.ID, late.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))

		require.NoError(t, svc.RemoveMember(ctx, room.ID, owner.ID, late.ID))
		ok, err := rooms.IsMember(ctx, room.ID, late.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("MaxMembersNotBelowCount", func(t *testing.T) {
		room, err := svc.CreateRoom(ctx, owner.ID, model.CreateRoomRequest{Name: "Crowded"})
		require.NoError(t, err)
		_, err = svc.JoinRoom(ctx, joiner.ID, model.JoinRoomRequest{InviteCode: room.InviteCode})
		require.NoError(t, err)
		_, err = svc.JoinRoom(ctx, late.ID, model.JoinRoomRequest{InviteCode: room.InviteCode})
		require.NoError(t, err)

		_, err = svc.UpdateRoom(ctx, room.ID, owner.ID, model.UpdateRoomRequest{MaxMembers: ptr(2)})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))

		_, err = svc.UpdateRoom(ctx, room.ID, joiner.ID, model.UpdateRoomRequest{Name: ptr("Mine now")})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))
	})

	t.Run("DeleteRoom", func(t *testing.T) {
		room, err := svc.CreateRoom(ctx, owner.ID, model.CreateRoomRequest{Name: "Temporary"})
		require.NoError(t, err)
		_, err = svc.JoinRoom(ctx, joiner.ID, model.JoinRoomRequest{InviteCode: room.InviteCode})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteRoom(ctx, room.ID, owner.ID))
		_, err = svc.GetRoom(ctx, room.ID, owner.ID)
		assert.Error(t, err)
	})
}
