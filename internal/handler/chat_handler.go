package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/service"
)

// ChatHandler handles room chat endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ListMessages godoc
// @Summary Get room messages, newest first
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param before query string false "Message ID cursor for older messages"
// @Param limit query int false "Number of messages (default 50, max 100)"
// @Success 200 {array} model.ChatMessage
// @Failure 403 {object} model.ErrorResponse
// @Router /rooms/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	roomID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.ChatListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid query", Code: model.ErrCodeValidation, Message: err.Error()})
		return
	}

	var before *uuid.UUID
	if req.Before != "" {
		id, err := uuid.Parse(req.Before)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid before cursor", Code: model.ErrCodeValidation})
			return
		}
		before = &id
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), roomID, currentUserID(c), before, req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage godoc
// @Summary Send a message to a room
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param body body model.SendChatMessageRequest true "Message"
// @Success 201 {object} model.ChatMessage
// @Failure 403 {object} model.ErrorResponse
// @Router /rooms/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	roomID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.SendChatMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), roomID, currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// DeleteMessage godoc
// @Summary Delete a message (author only)
// @Tags Chat
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 204
// @Failure 403 {object} model.ErrorResponse
// @Router /messages/{id} [delete]
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.chatService.DeleteMessage(c.Request.Context(), messageID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
