package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	publisher := &recordingPublisher{}
	svc := NewChatService(repository.NewChatRepository(db), repository.NewRoomRepository(db), publisher)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	mallory := createUser(t, db, "mallory")
	room := createRoom(t, db, alice, bob)

	t.Run("MembersOnly", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, room.ID, mallory.ID, model.SendChatMessageRequest{Content: "let me in"})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))
		assert.True(t, model.IsErrorCode(svc.CanSubscribe(ctx, room.ID, mallory.ID), model.ErrCodeForbidden))
		require.NoError(t, svc.CanSubscribe(ctx, room.ID, bob.ID))
	})

	t.Run("RejectsBlankAndLong", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, room.ID, alice.ID, model.SendChatMessageRequest{Content: "   "})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))
		_, err = svc.SendMessage(ctx, room.ID, alice.ID, model.SendChatMessageRequest{Content: strings.Repeat("é", 2001)})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))
	})

	t.Run("SendListAndPage", func(t *testing.T) {
		var sent []*model.ChatMessage
		for _, text := range []string{"one", "two", "three"} {
			msg, err := svc.SendMessage(ctx, room.ID, alice.ID, model.SendChatMessageRequest{Content: text})
			require.NoError(t, err)
			assert.Equal(t, "alice", msg.User.Name)
			sent = append(sent, msg)
		}
		assert.Len(t, publisher.changes("chat_messages"), 3)

		latest, err := svc.ListMessages(ctx, room.ID, bob.ID, nil, 2)
		require.NoError(t, err)
		require.Len(t, latest, 2)
		assert.Equal(t, "three", latest[0].Content)

		older, err := svc.ListMessages(ctx, room.ID, bob.ID, &latest[1].ID, 10)
		require.NoError(t, err)
		require.Len(t, older, 1)
		assert.Equal(t, sent[0].ID, older[0].ID)

		unknown := uuid.New()
		_, err = svc.ListMessages(ctx, room.ID, bob.ID, &unknown, 10)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))
	})

	t.Run("OnlyAuthorDeletes", func(t *testing.T) {
		msg, err := svc.SendMessage(ctx, room.ID, bob.ID, model.SendChatMessageRequest{Content: "oops"})
		require.NoError(t, err)

		err = svc.DeleteMessage(ctx, msg.ID, alice.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))
		require.NoError(t, svc.DeleteMessage(ctx, msg.ID, bob.ID))

		err = svc.DeleteMessage(ctx, msg.ID, bob.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeNotFound))
	})

	t.Run("TypingGoesToRoom", func(t *testing.T) {
		require.NoError(t, svc.Typing(ctx, room.ID, bob.ID, "bob", true))
		require.NoError(t, svc.Typing(ctx, room.ID, bob.ID, "bob", false))

		typing := publisher.ofType(model.WSEventTyping)
		require.NotEmpty(t, typing)
		require.NotNil(t, typing[0].roomID)
		assert.Equal(t, room.ID, *typing[0].roomID)
		assert.NotEmpty(t, publisher.ofType(model.WSEventStopTyping))

		assert.Error(t, svc.Typing(ctx, room.ID, mallory.ID, "mallory", true))
	})
}
