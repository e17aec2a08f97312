package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/service"
)

type JournalHandler struct {
	journalService *service.JournalService
}

func NewJournalHandler(journalService *service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// CreateEntry godoc
// @Summary Write a journal entry
// @Tags Journal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateJournalEntryRequest true "Entry"
// @Success 201 {object} model.JournalEntry
// @Router /journal [post]
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	var req model.CreateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.journalService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListEntries godoc
// @Summary List journal entries, newest first
// @Tags Journal
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (inclusive), YYYY-MM-DD"
// @Param to query string false "End date (exclusive), YYYY-MM-DD"
// @Success 200 {array} model.JournalEntry
// @Router /journal [get]
func (h *JournalHandler) ListEntries(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}

	entries, err := h.journalService.List(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetEntry godoc
// @Summary Get a journal entry
// @Tags Journal
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} model.JournalEntry
// @Router /journal/{id} [get]
func (h *JournalHandler) GetEntry(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	entry, err := h.journalService.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateEntry godoc
// @Summary Update a journal entry
// @Tags Journal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param body body model.UpdateJournalEntryRequest true "Changes"
// @Success 200 {object} model.JournalEntry
// @Router /journal/{id} [patch]
func (h *JournalHandler) UpdateEntry(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.journalService.Update(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteEntry godoc
// @Summary Delete a journal entry
// @Tags Journal
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204
// @Router /journal/{id} [delete]
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.journalService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
