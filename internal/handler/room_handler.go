package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/service"
)

// RoomHandler handles study room endpoints
type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom godoc
// @Summary Create a study room
// @Description The caller becomes the owner and an invite code is generated
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateRoomRequest true "Room"
// @Success 201 {object} model.Room
// @Failure 400 {object} model.ErrorResponse
// @Router /rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req model.CreateRoomRequest
	if !bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms godoc
// @Summary List rooms the caller belongs to
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Room
// @Router /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListMyRooms(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// GetRoom godoc
// @Summary Get a room
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {object} model.Room
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), roomID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// UpdateRoom godoc
// @Summary Update a room (owner only)
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param body body model.UpdateRoomRequest true "Changes"
// @Success 200 {object} model.Room
// @Failure 403 {object} model.ErrorResponse
// @Router /rooms/{id} [patch]
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateRoomRequest
	if !bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), roomID, currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// DeleteRoom godoc
// @Summary Delete a room (owner only)
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 204
// @Failure 403 {object} model.ErrorResponse
// @Router /rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(c.Request.Context(), roomID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// JoinRoom godoc
// @Summary Join a room by invite code
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.JoinRoomRequest true "Invite code"
// @Success 200 {object} model.JoinRoomResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse "Room is full"
// @Router /rooms/join [post]
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req model.JoinRoomRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.roomService.JoinRoom(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LeaveRoom godoc
// @Summary Leave a room
// @Description Owners cannot leave; they delete the room instead
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 204
// @Failure 400 {object} model.ErrorResponse
// @Router /rooms/{id}/leave [post]
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	roomID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.roomService.LeaveRoom(c.Request.Context(), roomID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers godoc
// @Summary List room members
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {array} model.RoomMember
// @Router /rooms/{id}/members [get]
func (h *RoomHandler) ListMembers(c *gin.Context) {
	roomID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	members, err := h.roomService.ListMembers(c.Request.Context(), roomID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// RemoveMember godoc
// @Summary Remove a member (owner only)
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param userId path string true "Member user ID"
// @Success 204
// @Failure 403 {object} model.ErrorResponse
// @Router /rooms/{id}/members/{userId} [delete]
func (h *RoomHandler) RemoveMember(c *gin.Context) {
	roomID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	memberID, ok := paramUUID(c, "userId")
	if !ok {
		return
	}

	if err := h.roomService.RemoveMember(c.Request.Context(), roomID, currentUserID(c), memberID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
