package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/service"
	"github.com/quocanhngo/focushub/internal/ws"
	"github.com/quocanhngo/focushub/pkg/auth"
)

const wsEventTimeout = 5 * time.Second

// WSHandler handles WebSocket connections
type WSHandler struct {
	hub         *ws.Hub
	chatService *service.ChatService
	jwtManager  *auth.JWTManager
	blacklist   *auth.Blacklist
	upgrader    websocket.Upgrader
}

// NewWSHandler accepts browser connections from origins only; "*" allows any origin
func NewWSHandler(hub *ws.Hub, chatService *service.ChatService, jwtManager *auth.JWTManager, blacklist *auth.Blacklist, origins []string) *WSHandler {
	return &WSHandler{
		hub:         hub,
		chatService: chatService,
		jwtManager:  jwtManager,
		blacklist:   blacklist,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// native clients send no Origin
				return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
			},
		},
	}
}

// roomPayload is the payload of subscribe, unsubscribe and typing events
type roomPayload struct {
	RoomID uuid.UUID `json:"room_id"`
}

// HandleWebSocket godoc
// @Summary Realtime change feed
// @Description Upgrades to a WebSocket. Browsers cannot set headers, so the JWT goes in the query string.
// @Tags Realtime
// @Param token query string true "JWT"
// @Success 101
// @Failure 401 {object} model.ErrorResponse
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Token required", Code: model.ErrCodeUnauthorized})
		return
	}

	claims, err := h.jwtManager.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Invalid token", Code: model.ErrCodeUnauthorized})
		return
	}
	if h.blacklist != nil {
		revoked, err := h.blacklist.IsRevoked(c.Request.Context(), tokenString)
		if err != nil {
			respondError(c, err)
			return
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Token has been revoked", Code: model.ErrCodeUnauthorized})
			return
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID, claims.Name)
	h.hub.Register(client)
	slog.Debug("websocket connected", "user_id", claims.UserID)

	// the request context ends when this handler returns
	ctx := context.WithoutCancel(c.Request.Context())
	go client.WritePump()
	go client.ReadPump(func(client *ws.Client, event ws.InboundEvent) {
		h.handleWSMessage(ctx, client, event)
	})
}

// handleWSMessage processes incoming WebSocket messages from clients
func (h *WSHandler) handleWSMessage(ctx context.Context, client *ws.Client, event ws.InboundEvent) {
	var payload roomPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil || payload.RoomID == uuid.Nil {
		h.sendError(client, event.Type, model.NewValidationError("payload.room_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, wsEventTimeout)
	defer cancel()

	switch event.Type {
	case model.WSEventSubscribeRoom:
		if err := h.chatService.CanSubscribe(ctx, payload.RoomID, client.UserID); err != nil {
			h.sendError(client, event.Type, err)
			return
		}
		h.hub.Subscribe(client, payload.RoomID)
		h.hub.SendDirect(client, &model.WSEvent{
			Type:    model.WSEventSubscribed,
			Payload: model.RoomEventPayload{RoomID: payload.RoomID},
		})

	case model.WSEventUnsubscribeRoom:
		h.hub.Unsubscribe(client, payload.RoomID)

	case model.WSEventTyping, model.WSEventStopTyping:
		typing := event.Type == model.WSEventTyping
		if err := h.chatService.Typing(ctx, payload.RoomID, client.UserID, client.Name, typing); err != nil {
			h.sendError(client, event.Type, err)
		}

	default:
		slog.Debug("unknown websocket event", "user_id", client.UserID, "type", event.Type)
	}
}

// sendError answers a single connection with an error event
func (h *WSHandler) sendError(client *ws.Client, eventType string, err error) {
	resp := model.ErrorResponse{Error: err.Error(), Code: model.ErrCodeInternal}
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		resp.Error = appErr.Message
		resp.Code = appErr.Code
	}
	if resp.Code == model.ErrCodeInternal {
		slog.Error("websocket event failed", "user_id", client.UserID, "type", eventType, "error", err)
		resp.Error = "Internal server error"
	}

	h.hub.SendDirect(client, &model.WSEvent{
		Type: model.WSEventError,
		Payload: gin.H{
			"event": eventType,
			"error": resp,
		},
	})
}
