package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/observability"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "focushub:events"

// Hub manages all WebSocket connections and fans events out to users and
// room subscribers. Redis Pub/Sub carries events between instances.
type Hub struct {
	// userID -> connections (one user can have several tabs/devices)
	clients map[uuid.UUID]map[*Client]bool
	// roomID -> connections subscribed to that room
	rooms map[uuid.UUID]map[*Client]bool
	mu    sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	rdb *redis.Client

	ready     chan struct{}
	readyOnce sync.Once

	// Callback when user comes online/offline
	onStatusChange func(userID uuid.UUID, online bool)
}

// NewHub creates a new WebSocket Hub. With a nil rdb events are delivered
// to local clients only.
func NewHub(rdb *redis.Client, onStatusChange func(userID uuid.UUID, online bool)) *Hub {
	return &Hub{
		clients:        make(map[uuid.UUID]map[*Client]bool),
		rooms:          make(map[uuid.UUID]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		rdb:            rdb,
		ready:          make(chan struct{}),
		onStatusChange: onStatusChange,
	}
}

// Run starts the Hub's main event loop
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeRedis(ctx)
	} else {
		h.markReady()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Ready is closed once the hub receives cross-instance events
func (h *Hub) Ready() <-chan struct{} {
	return h.ready
}

func (h *Hub) markReady() {
	h.readyOnce.Do(func() { close(h.ready) })
}

// Register queues a client for registration with the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister queues a client for removal
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	first := false
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
		first = true
	}
	h.clients[client.UserID][client] = true
	total := len(h.clients[client.UserID])
	h.mu.Unlock()

	observability.WebSocketConnections.Inc()
	slog.Debug("websocket client connected", "user_id", client.UserID, "connections", total)

	if first {
		if h.onStatusChange != nil {
			go h.onStatusChange(client.UserID, true)
		}
		h.publish(&TargetedEvent{Event: &model.WSEvent{
			Type:    model.WSEventOnline,
			Payload: model.OnlineEvent{UserID: client.UserID, IsOnline: true},
		}})
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	clients, ok := h.clients[client.UserID]
	if !ok || !clients[client] {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	for roomID := range client.rooms {
		h.leaveRoomLocked(client, roomID)
	}
	close(client.send)

	last := len(clients) == 0
	if last {
		delete(h.clients, client.UserID)
	}
	h.mu.Unlock()

	observability.WebSocketConnections.Dec()
	slog.Debug("websocket client disconnected", "user_id", client.UserID)

	if last {
		if h.onStatusChange != nil {
			go h.onStatusChange(client.UserID, false)
		}
		h.publish(&TargetedEvent{Event: &model.WSEvent{
			Type:    model.WSEventOffline,
			Payload: model.OnlineEvent{UserID: client.UserID, IsOnline: false},
		}})
	}
}

// Subscribe adds a connection to a room's audience
func (h *Hub) Subscribe(client *Client, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[client.UserID][client] {
		return
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}

// Unsubscribe removes a connection from a room's audience
func (h *Hub) Unsubscribe(client *Client, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveRoomLocked(client, roomID)
}

// UnsubscribeUser drops all of a user's connections from a room, e.g. after
// they leave or are removed from it
func (h *Hub) UnsubscribeUser(userID, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[userID] {
		h.leaveRoomLocked(client, roomID)
	}
}

func (h *Hub) leaveRoomLocked(client *Client, roomID uuid.UUID) {
	delete(client.rooms, roomID)
	if subs, ok := h.rooms[roomID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// SendToUser sends an event to every connection of a user on every instance
func (h *Hub) SendToUser(userID uuid.UUID, event *model.WSEvent) {
	h.publish(&TargetedEvent{TargetUserID: userID, Event: event})
}

// SendToUsers sends an event to multiple users
func (h *Hub) SendToUsers(userIDs []uuid.UUID, event *model.WSEvent) {
	for _, userID := range userIDs {
		h.SendToUser(userID, event)
	}
}

// SendToRoom sends an event to every connection subscribed to a room
func (h *Hub) SendToRoom(roomID uuid.UUID, event *model.WSEvent) {
	h.publish(&TargetedEvent{TargetRoomID: roomID, Event: event})
}

// SendDirect queues an event for one local connection without going through Redis
func (h *Hub) SendDirect(client *Client, event *model.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal websocket event", "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[client.UserID][client] {
		h.enqueue(client, data, event.Type)
	}
}

// deliver sends a targeted event to the matching local connections
func (h *Hub) deliver(targeted *TargetedEvent) {
	if targeted.Event == nil {
		return
	}
	data, err := json.Marshal(targeted.Event)
	if err != nil {
		slog.Error("failed to marshal websocket event", "type", targeted.Event.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	switch {
	case targeted.TargetUserID != uuid.Nil:
		for client := range h.clients[targeted.TargetUserID] {
			h.enqueue(client, data, targeted.Event.Type)
		}
	case targeted.TargetRoomID != uuid.Nil:
		for client := range h.rooms[targeted.TargetRoomID] {
			h.enqueue(client, data, targeted.Event.Type)
		}
	default:
		for _, clients := range h.clients {
			for client := range clients {
				h.enqueue(client, data, targeted.Event.Type)
			}
		}
	}
}

// enqueue must be called with h.mu held. A client whose buffer is full is
// dropped; the removal happens on the hub loop.
func (h *Hub) enqueue(client *Client, data []byte, eventType string) {
	select {
	case client.send <- data:
		observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()
	default:
		observability.WebSocketDrops.Inc()
		slog.Warn("websocket send buffer full, dropping client", "user_id", client.UserID)
		go h.Unregister(client)
	}
}

// IsUserOnline checks if a user has any active connections on this instance
func (h *Hub) IsUserOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// ========== Redis Pub/Sub for Horizontal Scaling ==========

// TargetedEvent wraps an event with its audience for Redis Pub/Sub.
// Neither target set means every connected client.
type TargetedEvent struct {
	TargetUserID uuid.UUID      `json:"target_user_id,omitempty"`
	TargetRoomID uuid.UUID      `json:"target_room_id,omitempty"`
	Event        *model.WSEvent `json:"event"`
}

// publish hands an event to Redis so all instances can deliver it
func (h *Hub) publish(targeted *TargetedEvent) {
	if h.rdb == nil {
		h.deliver(targeted)
		return
	}

	data, err := json.Marshal(targeted)
	if err != nil {
		slog.Error("failed to marshal event for redis", "error", err)
		return
	}

	if err := h.rdb.Publish(context.Background(), redisChannel, data).Err(); err != nil {
		observability.RedisErrors.WithLabelValues("publish").Inc()
		slog.Error("failed to publish to redis", "error", err)
	}
}

// subscribeRedis subscribes to Redis and delivers events to local clients
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		observability.RedisErrors.WithLabelValues("subscribe").Inc()
		slog.Error("redis subscribe failed", "channel", redisChannel, "error", err)
		return
	}
	h.markReady()

	ch := pubsub.Channel()
	slog.Info("redis pub/sub subscriber started", "channel", redisChannel)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var targeted TargetedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &targeted); err != nil {
				slog.Warn("failed to unmarshal redis message", "error", err)
				continue
			}
			h.deliver(&targeted)
		}
	}
}
