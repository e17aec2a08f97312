package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
)

const (
	calendarDayLayout  = "2006-01-02"
	maxCalendarDays    = 92
	goalCompleteAtPerc = 100
)

// PlannerService handles goals, tasks and the calendar view
type PlannerService struct {
	repo        *repository.PlannerRepository
	journalRepo *repository.JournalRepository
	publisher   Publisher
	now         func() time.Time
}

func NewPlannerService(repo *repository.PlannerRepository, journalRepo *repository.JournalRepository, publisher Publisher) *PlannerService {
	return &PlannerService{
		repo:        repo,
		journalRepo: journalRepo,
		publisher:   publisherOrNop(publisher),
		now:         time.Now,
	}
}

func clampProgress(p int) int {
	return max(0, min(p, goalCompleteAtPerc))
}

// ==================== Goals ====================

// CreateGoal adds a goal. Progress is clamped to 0..100; a goal at 100 is completed.
func (s *PlannerService) CreateGoal(ctx context.Context, userID uuid.UUID, req model.CreateGoalRequest) (*model.Goal, error) {
	progress := clampProgress(req.Progress)
	g := &model.Goal{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		TargetDate:  utcPtr(req.TargetDate),
		Progress:    progress,
		Completed:   progress == goalCompleteAtPerc,
	}
	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("create goal: %w", err))
	}
	publishChange(s.publisher, userID, nil, "goals", model.ChangeInsert, g)
	return g, nil
}

// ListGoals returns the user's goals, open ones first
func (s *PlannerService) ListGoals(ctx context.Context, userID uuid.UUID) ([]model.Goal, error) {
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return goals, nil
}

// GetGoal returns one of the user's goals
func (s *PlannerService) GetGoal(ctx context.Context, userID, id uuid.UUID) (*model.Goal, error) {
	g, err := s.repo.FindGoal(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Goal", id)
	}
	if g.UserID != userID {
		return nil, model.NewNotFoundError("Goal", id)
	}
	return g, nil
}

// UpdateGoal edits a goal. Setting progress to 100 completes it; marking it
// completed sets progress to 100.
func (s *PlannerService) UpdateGoal(ctx context.Context, userID, id uuid.UUID, req model.UpdateGoalRequest) (*model.Goal, error) {
	current, err := s.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.TargetDate != nil {
		updates["target_date"] = req.TargetDate.UTC()
	}
	if req.Progress != nil {
		p := clampProgress(*req.Progress)
		updates["progress"] = p
		updates["completed"] = p == goalCompleteAtPerc
	}
	if req.Completed != nil {
		progress := current.Progress
		if req.Progress != nil {
			progress = clampProgress(*req.Progress)
		}
		if !*req.Completed && progress == goalCompleteAtPerc {
			return nil, model.NewValidationError("an open goal needs progress below 100")
		}
		updates["completed"] = *req.Completed
		if *req.Completed {
			updates["progress"] = goalCompleteAtPerc
		}
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateGoal(ctx, id, updates); err != nil {
			return nil, model.NewInternalError(err)
		}
	}

	updated, err := s.repo.FindGoal(ctx, id)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, nil, "goals", model.ChangeUpdate, updated)
	return updated, nil
}

// DeleteGoal removes a goal and detaches its tasks
func (s *PlannerService) DeleteGoal(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetGoal(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteGoal(ctx, id); err != nil {
		return model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, nil, "goals", model.ChangeDelete, recordRef{ID: id})
	return nil
}

// ==================== Tasks ====================

// CreateTask adds a task, optionally under one of the user's goals
func (s *PlannerService) CreateTask(ctx context.Context, userID uuid.UUID, req model.CreateTaskRequest) (*model.Task, error) {
	if req.GoalID != nil {
		if err := s.checkGoal(ctx, userID, *req.GoalID); err != nil {
			return nil, err
		}
	}

	t := &model.Task{
		UserID: userID,
		GoalID: req.GoalID,
		Title:  strings.TrimSpace(req.Title),
		Notes:  req.Notes,
		DueAt:  utcPtr(req.DueAt),
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("create task: %w", err))
	}
	publishChange(s.publisher, userID, nil, "tasks", model.ChangeInsert, t)
	return t, nil
}

// ListTasks returns the user's tasks, optionally filtered by goal and completion
func (s *PlannerService) ListTasks(ctx context.Context, userID uuid.UUID, goalID *uuid.UUID, completed *bool) ([]model.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, userID, goalID, completed)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return tasks, nil
}

// GetTask returns one of the user's tasks
func (s *PlannerService) GetTask(ctx context.Context, userID, id uuid.UUID) (*model.Task, error) {
	t, err := s.repo.FindTask(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Task", id)
	}
	if t.UserID != userID {
		return nil, model.NewNotFoundError("Task", id)
	}
	return t, nil
}

// UpdateTask edits a task. Completing stamps completed_at, reopening clears it.
func (s *PlannerService) UpdateTask(ctx context.Context, userID, id uuid.UUID, req model.UpdateTaskRequest) (*model.Task, error) {
	current, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.DueAt != nil {
		updates["due_at"] = req.DueAt.UTC()
	}
	if req.GoalID != nil {
		if err := s.checkGoal(ctx, userID, *req.GoalID); err != nil {
			return nil, err
		}
		updates["goal_id"] = *req.GoalID
	}
	if req.Completed != nil && *req.Completed != current.Completed {
		updates["completed"] = *req.Completed
		if *req.Completed {
			updates["completed_at"] = s.now().UTC()
		} else {
			updates["completed_at"] = nil
		}
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateTask(ctx, id, updates); err != nil {
			return nil, model.NewInternalError(err)
		}
	}

	updated, err := s.repo.FindTask(ctx, id)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, nil, "tasks", model.ChangeUpdate, updated)
	return updated, nil
}

// DeleteTask removes one of the user's tasks
func (s *PlannerService) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, nil, "tasks", model.ChangeDelete, recordRef{ID: id})
	return nil
}

func (s *PlannerService) checkGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	g, err := s.repo.FindGoal(ctx, goalID)
	if err != nil {
		if isNotFound(err) {
			return model.NewValidationError("goal does not exist")
		}
		return model.NewInternalError(err)
	}
	if g.UserID != userID {
		return model.NewValidationError("goal does not exist")
	}
	return nil
}

// ==================== Calendar ====================

// Calendar buckets tasks by due date, goals by target date and journal
// entries by entry date into UTC days from from up to and including to
func (s *PlannerService) Calendar(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.CalendarDay, error) {
	start := startOfDay(from)
	end := startOfDay(to).AddDate(0, 0, 1)
	if !start.Before(end) {
		return nil, model.NewValidationError("from must not be after to")
	}
	days := int(end.Sub(start).Hours() / 24)
	if days > maxCalendarDays {
		return nil, model.NewValidationError(fmt.Sprintf("calendar range cannot exceed %d days", maxCalendarDays))
	}

	tasks, err := s.repo.TasksDueBetween(ctx, userID, start, end)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	goals, err := s.repo.GoalsTargetingBetween(ctx, userID, start, end)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	entries, err := s.journalRepo.List(ctx, userID, start, end)
	if err != nil {
		return nil, model.NewInternalError(err)
	}

	calendar := make([]model.CalendarDay, days)
	index := make(map[string]int, days)
	for i := range calendar {
		date := start.AddDate(0, 0, i).Format(calendarDayLayout)
		calendar[i] = model.CalendarDay{
			Date:           date,
			Tasks:          []model.Task{},
			Goals:          []model.Goal{},
			JournalEntries: []model.JournalEntry{},
		}
		index[date] = i
	}

	for _, t := range tasks {
		if i, ok := index[t.DueAt.UTC().Format(calendarDayLayout)]; ok {
			calendar[i].Tasks = append(calendar[i].Tasks, t)
		}
	}
	for _, g := range goals {
		if i, ok := index[g.TargetDate.UTC().Format(calendarDayLayout)]; ok {
			calendar[i].Goals = append(calendar[i].Goals, g)
		}
	}
	// entries come newest first; keep each day in chronological order
	for j := len(entries) - 1; j >= 0; j-- {
		e := entries[j]
		if i, ok := index[e.EntryDate.UTC().Format(calendarDayLayout)]; ok {
			calendar[i].JournalEntries = append(calendar[i].JournalEntries, e)
		}
	}
	return calendar, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
