package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/service"
)

// PomodoroHandler handles timer settings, sessions, preferences and the sound catalog
type PomodoroHandler struct {
	pomodoroService    *service.PomodoroService
	preferencesService *service.PreferencesService
}

func NewPomodoroHandler(pomodoroService *service.PomodoroService, preferencesService *service.PreferencesService) *PomodoroHandler {
	return &PomodoroHandler{
		pomodoroService:    pomodoroService,
		preferencesService: preferencesService,
	}
}

// GetSettings godoc
// @Summary Get pomodoro settings
// @Description Returns 25/5/15/4 defaults when nothing is stored
// @Tags Pomodoro
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PomodoroSettings
// @Router /pomodoro/settings [get]
func (h *PomodoroHandler) GetSettings(c *gin.Context) {
	settings, err := h.pomodoroService.GetSettings(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Save pomodoro settings
// @Tags Pomodoro
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.UpdatePomodoroSettingsRequest true "Settings"
// @Success 200 {object} model.PomodoroSettings
// @Router /pomodoro/settings [put]
func (h *PomodoroHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdatePomodoroSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.pomodoroService.UpdateSettings(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// RecordSession godoc
// @Summary Record a finished pomodoro session
// @Tags Pomodoro
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.RecordSessionRequest true "Session"
// @Success 201 {object} model.PomodoroSession
// @Router /pomodoro/sessions [post]
func (h *PomodoroHandler) RecordSession(c *gin.Context) {
	var req model.RecordSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.pomodoroService.RecordSession(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions godoc
// @Summary Recent pomodoro sessions
// @Tags Pomodoro
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max sessions (100)"
// @Success 200 {array} model.PomodoroSession
// @Router /pomodoro/sessions [get]
func (h *PomodoroHandler) ListSessions(c *gin.Context) {
	sessions, err := h.pomodoroService.ListSessions(c.Request.Context(), currentUserID(c), queryInt(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// Summary godoc
// @Summary Focus minutes per day
// @Tags Pomodoro
// @Produce json
// @Security BearerAuth
// @Param days query int false "Number of days including today (default 7, max 90)"
// @Success 200 {object} model.PomodoroSummary
// @Router /pomodoro/summary [get]
func (h *PomodoroHandler) Summary(c *gin.Context) {
	summary, err := h.pomodoroService.Summary(c.Request.Context(), currentUserID(c), queryInt(c, "days"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetPreferences godoc
// @Summary Get UI preferences
// @Tags Preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserPreferences
// @Router /preferences [get]
func (h *PomodoroHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.preferencesService.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences godoc
// @Summary Update UI preferences
// @Description Only the fields present are changed. ambient_sound must be a catalog id or empty.
// @Tags Preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.UpdatePreferencesRequest true "Changes"
// @Success 200 {object} model.UserPreferences
// @Router /preferences [patch]
func (h *PomodoroHandler) UpdatePreferences(c *gin.Context) {
	var req model.UpdatePreferencesRequest
	if !bindJSON(c, &req) {
		return
	}

	prefs, err := h.preferencesService.Update(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// ListSounds godoc
// @Summary Ambient sound catalog
// @Tags Preferences
// @Produce json
// @Success 200 {array} sounds.Sound
// @Router /sounds [get]
func (h *PomodoroHandler) ListSounds(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, h.preferencesService.Sounds())
}
