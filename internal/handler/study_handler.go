package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/service"
)

// StudyHandler handles categories and flashcards
type StudyHandler struct {
	studyService *service.StudyService
}

func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// CreateCategory godoc
// @Summary Create a flashcard category
// @Tags Flashcards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateCategoryRequest true "Category"
// @Success 201 {object} model.Category
// @Failure 409 {object} model.ErrorResponse
// @Router /categories [post]
func (h *StudyHandler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.studyService.CreateCategory(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListCategories godoc
// @Summary List personal categories, or a room's categories
// @Tags Flashcards
// @Produce json
// @Security BearerAuth
// @Param room_id query string false "Room ID"
// @Success 200 {array} model.Category
// @Router /categories [get]
func (h *StudyHandler) ListCategories(c *gin.Context) {
	roomID, ok := queryUUID(c, "room_id")
	if !ok {
		return
	}

	categories, err := h.studyService.ListCategories(c.Request.Context(), currentUserID(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags Flashcards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param body body model.UpdateCategoryRequest true "Changes"
// @Success 200 {object} model.Category
// @Router /categories/{id} [patch]
func (h *StudyHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.studyService.UpdateCategory(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category. Its flashcards are kept without a category.
// @Tags Flashcards
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204
// @Router /categories/{id} [delete]
func (h *StudyHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.studyService.DeleteCategory(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateFlashcard godoc
// @Summary Create a flashcard
// @Tags Flashcards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateFlashcardRequest true "Flashcard"
// @Success 201 {object} model.Flashcard
// @Router /flashcards [post]
func (h *StudyHandler) CreateFlashcard(c *gin.Context) {
	var req model.CreateFlashcardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.studyService.CreateFlashcard(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

// ListFlashcards godoc
// @Summary List flashcards
// @Tags Flashcards
// @Produce json
// @Security BearerAuth
// @Param category_id query string false "Category ID"
// @Param room_id query string false "Room ID"
// @Param mastered query boolean false "Mastered filter"
// @Success 200 {array} model.Flashcard
// @Router /flashcards [get]
func (h *StudyHandler) ListFlashcards(c *gin.Context) {
	var filter model.FlashcardFilter
	var ok bool
	if filter.CategoryID, ok = queryUUID(c, "category_id"); !ok {
		return
	}
	if filter.RoomID, ok = queryUUID(c, "room_id"); !ok {
		return
	}
	if filter.Mastered, ok = queryBool(c, "mastered"); !ok {
		return
	}

	cards, err := h.studyService.ListFlashcards(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cards)
}

// GetFlashcard godoc
// @Summary Get a flashcard
// @Tags Flashcards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flashcard ID"
// @Success 200 {object} model.Flashcard
// @Router /flashcards/{id} [get]
func (h *StudyHandler) GetFlashcard(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	card, err := h.studyService.GetFlashcard(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// UpdateFlashcard godoc
// @Summary Update a flashcard (author only)
// @Tags Flashcards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flashcard ID"
// @Param body body model.UpdateFlashcardRequest true "Changes"
// @Success 200 {object} model.Flashcard
// @Router /flashcards/{id} [patch]
func (h *StudyHandler) UpdateFlashcard(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateFlashcardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.studyService.UpdateFlashcard(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// ReviewFlashcard godoc
// @Summary Record a review of a flashcard
// @Tags Flashcards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flashcard ID"
// @Param body body model.ReviewFlashcardRequest false "Optional mastered flag"
// @Success 200 {object} model.Flashcard
// @Router /flashcards/{id}/review [post]
func (h *StudyHandler) ReviewFlashcard(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.ReviewFlashcardRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	card, err := h.studyService.ReviewFlashcard(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// DeleteFlashcard godoc
// @Summary Delete a flashcard (author only)
// @Tags Flashcards
// @Security BearerAuth
// @Param id path string true "Flashcard ID"
// @Success 204
// @Router /flashcards/{id} [delete]
func (h *StudyHandler) DeleteFlashcard(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.studyService.DeleteFlashcard(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
