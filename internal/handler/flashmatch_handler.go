package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/service"
)

// FlashMatchHandler handles the multiplayer flashcard game
type FlashMatchHandler struct {
	matchService *service.FlashMatchService
}

func NewFlashMatchHandler(matchService *service.FlashMatchService) *FlashMatchHandler {
	return &FlashMatchHandler{matchService: matchService}
}

// CreateMatch godoc
// @Summary Open a FlashMatch lobby
// @Description The host joins as the first player. Room matches invite every room member.
// @Tags FlashMatch
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateMatchRequest true "Match settings"
// @Success 201 {object} model.MatchView
// @Failure 400 {object} model.ErrorResponse
// @Router /matches [post]
func (h *FlashMatchHandler) CreateMatch(c *gin.Context) {
	var req model.CreateMatchRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.matchService.CreateMatch(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// ListMatches godoc
// @Summary Recent matches of a room, or the caller's own
// @Tags FlashMatch
// @Produce json
// @Security BearerAuth
// @Param room_id query string false "Room ID"
// @Success 200 {array} model.Match
// @Router /matches [get]
func (h *FlashMatchHandler) ListMatches(c *gin.Context) {
	roomID, ok := queryUUID(c, "room_id")
	if !ok {
		return
	}

	matches, err := h.matchService.ListMatches(c.Request.Context(), currentUserID(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetMatch godoc
// @Summary Scoreboard
// @Description Players ordered by score, plus the current round without its answer while active
// @Tags FlashMatch
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} model.MatchView
// @Router /matches/{id} [get]
func (h *FlashMatchHandler) GetMatch(c *gin.Context) {
	matchID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.matchService.GetMatch(c.Request.Context(), matchID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// JoinMatch godoc
// @Summary Join a match lobby
// @Tags FlashMatch
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} model.MatchView
// @Failure 409 {object} model.ErrorResponse "Match already started"
// @Router /matches/{id}/join [post]
func (h *FlashMatchHandler) JoinMatch(c *gin.Context) {
	matchID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.matchService.JoinMatch(c.Request.Context(), matchID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// LeaveMatch godoc
// @Summary Leave a match lobby
// @Description The host leaving cancels the match
// @Tags FlashMatch
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 204
// @Router /matches/{id}/leave [post]
func (h *FlashMatchHandler) LeaveMatch(c *gin.Context) {
	matchID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.matchService.LeaveMatch(c.Request.Context(), matchID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// StartMatch godoc
// @Summary Start the match (host only)
// @Tags FlashMatch
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} model.MatchView
// @Failure 400 {object} model.ErrorResponse "No flashcards to play"
// @Failure 403 {object} model.ErrorResponse
// @Router /matches/{id}/start [post]
func (h *FlashMatchHandler) StartMatch(c *gin.Context) {
	matchID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.matchService.StartMatch(c.Request.Context(), matchID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SubmitAnswer godoc
// @Summary Answer the current round
// @Tags FlashMatch
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Param body body model.SubmitAnswerRequest true "Answer"
// @Success 200 {object} model.AnswerResult
// @Failure 409 {object} model.ErrorResponse "Round closed or already answered"
// @Router /matches/{id}/answer [post]
func (h *FlashMatchHandler) SubmitAnswer(c *gin.Context) {
	matchID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.SubmitAnswerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.matchService.SubmitAnswer(c.Request.Context(), matchID, currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PassRound godoc
// @Summary Pass on the current round
// @Tags FlashMatch
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Param body body model.PassRoundRequest true "Round"
// @Success 200 {object} model.AnswerResult
// @Router /matches/{id}/pass [post]
func (h *FlashMatchHandler) PassRound(c *gin.Context) {
	matchID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.PassRoundRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.matchService.PassRound(c.Request.Context(), matchID, currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RoundResults godoc
// @Summary Finished rounds with every answer
// @Tags FlashMatch
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {array} model.RoundResult
// @Router /matches/{id}/rounds [get]
func (h *FlashMatchHandler) RoundResults(c *gin.Context) {
	matchID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	results, err := h.matchService.RoundResults(c.Request.Context(), matchID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
