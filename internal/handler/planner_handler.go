package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/service"
)

// PlannerHandler handles goals, tasks and the calendar
type PlannerHandler struct {
	plannerService *service.PlannerService
}

func NewPlannerHandler(plannerService *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{plannerService: plannerService}
}

// ==================== Goals ====================

// CreateGoal godoc
// @Summary Create a goal
// @Description Progress is clamped to 0..100; a goal at 100 is completed
// @Tags Planner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateGoalRequest true "Goal"
// @Success 201 {object} model.Goal
// @Router /goals [post]
func (h *PlannerHandler) CreateGoal(c *gin.Context) {
	var req model.CreateGoalRequest
	if !bindJSON(c, &req) {
		return
	}

	goal, err := h.plannerService.CreateGoal(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// ListGoals godoc
// @Summary List goals
// @Tags Planner
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Goal
// @Router /goals [get]
func (h *PlannerHandler) ListGoals(c *gin.Context) {
	goals, err := h.plannerService.ListGoals(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

// GetGoal godoc
// @Summary Get a goal
// @Tags Planner
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} model.Goal
// @Router /goals/{id} [get]
func (h *PlannerHandler) GetGoal(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	goal, err := h.plannerService.GetGoal(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// UpdateGoal godoc
// @Summary Update a goal
// @Tags Planner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param body body model.UpdateGoalRequest true "Changes"
// @Success 200 {object} model.Goal
// @Router /goals/{id} [patch]
func (h *PlannerHandler) UpdateGoal(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateGoalRequest
	if !bindJSON(c, &req) {
		return
	}

	goal, err := h.plannerService.UpdateGoal(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// DeleteGoal godoc
// @Summary Delete a goal. Its tasks are kept without a goal.
// @Tags Planner
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 204
// @Router /goals/{id} [delete]
func (h *PlannerHandler) DeleteGoal(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.plannerService.DeleteGoal(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ==================== Tasks ====================

// CreateTask godoc
// @Summary Create a task
// @Tags Planner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateTaskRequest true "Task"
// @Success 201 {object} model.Task
// @Router /tasks [post]
func (h *PlannerHandler) CreateTask(c *gin.Context) {
	var req model.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.plannerService.CreateTask(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListTasks godoc
// @Summary List tasks
// @Tags Planner
// @Produce json
// @Security BearerAuth
// @Param goal_id query string false "Goal ID"
// @Param completed query boolean false "Completed filter"
// @Success 200 {array} model.Task
// @Router /tasks [get]
func (h *PlannerHandler) ListTasks(c *gin.Context) {
	goalID, ok := queryUUID(c, "goal_id")
	if !ok {
		return
	}
	completed, ok := queryBool(c, "completed")
	if !ok {
		return
	}

	tasks, err := h.plannerService.ListTasks(c.Request.Context(), currentUserID(c), goalID, completed)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTask godoc
// @Summary Get a task
// @Tags Planner
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} model.Task
// @Router /tasks/{id} [get]
func (h *PlannerHandler) GetTask(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	task, err := h.plannerService.GetTask(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Description Setting completed stamps completed_at; clearing it removes the stamp
// @Tags Planner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param body body model.UpdateTaskRequest true "Changes"
// @Success 200 {object} model.Task
// @Router /tasks/{id} [patch]
func (h *PlannerHandler) UpdateTask(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.plannerService.UpdateTask(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags Planner
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 204
// @Router /tasks/{id} [delete]
func (h *PlannerHandler) DeleteTask(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.plannerService.DeleteTask(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Calendar godoc
// @Summary Tasks, goals and journal entries bucketed by UTC day
// @Tags Planner
// @Produce json
// @Security BearerAuth
// @Param from query string true "First day, YYYY-MM-DD"
// @Param to query string true "Last day (inclusive), YYYY-MM-DD"
// @Success 200 {array} model.CalendarDay
// @Failure 400 {object} model.ErrorResponse
// @Router /calendar [get]
func (h *PlannerHandler) Calendar(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	if from.IsZero() || to.IsZero() {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "from and to are required", Code: model.ErrCodeValidation})
		return
	}

	days, err := h.plannerService.Calendar(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, days)
}
