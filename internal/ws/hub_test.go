package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, rdb *redis.Client) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(rdb, nil)
	go hub.Run(ctx)

	select {
	case <-hub.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("hub never became ready")
	}
	return hub
}

func connect(t *testing.T, hub *Hub, userID uuid.UUID) *Client {
	t.Helper()
	c := NewClient(hub, nil, userID, "tester")
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.IsUserOnline(userID) }, time.Second, 5*time.Millisecond)
	return c
}

// nextEvent waits for the first event of the given type, skipping others
func nextEvent(t *testing.T, c *Client, eventType string) map[string]interface{} {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case data, ok := <-c.send:
			require.True(t, ok, "send channel closed")
			var ev map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &ev))
			if ev["type"] == eventType {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %q event received", eventType)
			return nil
		}
	}
}

func assertNoEvent(t *testing.T, c *Client, eventType string) {
	t.Helper()
	timeout := time.After(200 * time.Millisecond)
	for {
		select {
		case data := <-c.send:
			var ev map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &ev))
			assert.NotEqual(t, eventType, ev["type"])
		case <-timeout:
			return
		}
	}
}

func TestHub_SendToUserThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	hub := startHub(t, redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	alice := connect(t, hub, uuid.New())
	bob := connect(t, hub, uuid.New())

	hub.SendToUser(alice.UserID, &model.WSEvent{Type: model.WSEventNotification, Payload: map[string]string{"title": "hi"}})

	ev := nextEvent(t, alice, model.WSEventNotification)
	assert.Equal(t, "hi", ev["payload"].(map[string]interface{})["title"])
	assertNoEvent(t, bob, model.WSEventNotification)
}

func TestHub_RoomSubscriptions(t *testing.T) {
	mr := miniredis.RunT(t)
	hub := startHub(t, redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	roomID := uuid.New()
	member := connect(t, hub, uuid.New())
	outsider := connect(t, hub, uuid.New())

	hub.Subscribe(member, roomID)
	hub.SendToRoom(roomID, &model.WSEvent{Type: model.WSEventChange, Payload: model.ChangeEvent{Table: "chat_messages", Action: model.ChangeInsert, RoomID: &roomID}})

	ev := nextEvent(t, member, model.WSEventChange)
	assert.Equal(t, "chat_messages", ev["payload"].(map[string]interface{})["table"])
	assertNoEvent(t, outsider, model.WSEventChange)

	hub.UnsubscribeUser(member.UserID, roomID)
	hub.SendToRoom(roomID, &model.WSEvent{Type: model.WSEventChange, Payload: model.ChangeEvent{Table: "chat_messages"}})
	assertNoEvent(t, member, model.WSEventChange)
}

func TestHub_TwoInstancesShareEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	hubA := startHub(t, redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	hubB := startHub(t, redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	userID := uuid.New()
	onB := connect(t, hubB, userID)

	hubA.SendToUser(userID, &model.WSEvent{Type: model.WSEventMatchUpdated, Payload: map[string]int{"round": 2}})
	nextEvent(t, onB, model.WSEventMatchUpdated)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t, nil)

	c := connect(t, hub, uuid.New())
	roomID := uuid.New()
	hub.Subscribe(c, roomID)

	hub.Unregister(c)
	require.Eventually(t, func() bool { return !hub.IsUserOnline(c.UserID) }, time.Second, 5*time.Millisecond)

	// drain, then the channel must be closed
	for range c.send {
	}

	// a second unregister is a no-op
	hub.Unregister(c)
	hub.SendToRoom(roomID, &model.WSEvent{Type: model.WSEventChange})
}

func TestHub_FullBufferDropsClient(t *testing.T) {
	hub := startHub(t, nil)
	c := connect(t, hub, uuid.New())

	for i := 0; i < sendBufferSize+1; i++ {
		hub.SendToUser(c.UserID, &model.WSEvent{Type: model.WSEventChange})
	}

	require.Eventually(t, func() bool { return !hub.IsUserOnline(c.UserID) }, time.Second, 5*time.Millisecond)
}
