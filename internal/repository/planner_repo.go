package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
)

// PlannerRepository handles database operations for Goal and Task
type PlannerRepository struct {
	db *gorm.DB
}

func NewPlannerRepository(db *gorm.DB) *PlannerRepository {
	return &PlannerRepository{db: db}
}

// ========== Goals ==========

func (r *PlannerRepository) CreateGoal(ctx context.Context, g *model.Goal) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *PlannerRepository) FindGoal(ctx context.Context, id uuid.UUID) (*model.Goal, error) {
	var g model.Goal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// FindGoalByTitle finds one of the user's goals by exact title
func (r *PlannerRepository) FindGoalByTitle(ctx context.Context, userID uuid.UUID, title string) (*model.Goal, error) {
	var g model.Goal
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND title = ?", userID, title).
		Order("created_at ASC").
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PlannerRepository) ListGoals(ctx context.Context, userID uuid.UUID) ([]model.Goal, error) {
	goals := []model.Goal{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed ASC, created_at DESC").
		Find(&goals).Error
	return goals, err
}

func (r *PlannerRepository) UpdateGoal(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Goal{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteGoal removes a goal and detaches its tasks
func (r *PlannerRepository) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).Where("goal_id = ?", id).Update("goal_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Goal{}).Error
	})
}

// ========== Tasks ==========

func (r *PlannerRepository) CreateTask(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PlannerRepository) FindTask(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var t model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns a user's tasks, optionally only those of one goal or completion state
func (r *PlannerRepository) ListTasks(ctx context.Context, userID uuid.UUID, goalID *uuid.UUID, completed *bool) ([]model.Task, error) {
	tasks := []model.Task{}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if goalID != nil {
		q = q.Where("goal_id = ?", *goalID)
	}
	if completed != nil {
		q = q.Where("completed = ?", *completed)
	}
	err := q.Order("completed ASC, due_at ASC, created_at DESC").Find(&tasks).Error
	return tasks, err
}

// TaskExists reports whether the user has a task with this title and due time
func (r *PlannerRepository) TaskExists(ctx context.Context, userID uuid.UUID, title string, dueAt *time.Time) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("user_id = ? AND title = ?", userID, title)
	if dueAt == nil {
		q = q.Where("due_at IS NULL")
	} else {
		q = q.Where("due_at = ?", dueAt.UTC())
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *PlannerRepository) UpdateTask(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(updates).Error
}

func (r *PlannerRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{}).Error
}

// ========== Calendar ==========

// TasksDueBetween returns tasks with due_at in [from, to)
func (r *PlannerRepository) TasksDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Task, error) {
	tasks := []model.Task{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND due_at >= ? AND due_at < ?", userID, from, to).
		Order("due_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// GoalsTargetingBetween returns goals with target_date in [from, to)
func (r *PlannerRepository) GoalsTargetingBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Goal, error) {
	goals := []model.Goal{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_date >= ? AND target_date < ?", userID, from, to).
		Order("target_date ASC").
		Find(&goals).Error
	return goals, err
}
