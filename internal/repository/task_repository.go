package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskpad/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("position ASC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// SetCompletion flips a task's completion flag. Completing also stamps
// LastCompletedAt; un-completing leaves the old stamp in place as the last
// "was done" hint.
func (r *TaskRepository) SetCompletion(ctx context.Context, task *model.Task, completed bool, at time.Time) error {
	task.IsCompleted = completed
	if completed {
		task.LastCompletedAt = &at
	}
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("set task completion: %w", err)
	}
	return nil
}

// ResetStaleDaily un-completes every daily task of the user whose last
// completion is before the given local-midnight cutoff (or missing). The
// filter runs server-side, so two clients issuing the reset for the same day
// cannot double-apply it; the second write matches zero rows.
func (r *TaskRepository) ResetStaleDaily(ctx context.Context, userID string, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND is_daily = ? AND is_completed = ?", userID, true, true).
		Where("last_completed_at IS NULL OR last_completed_at < ?", before).
		Update("is_completed", false)
	if res.Error != nil {
		return 0, fmt.Errorf("reset stale daily tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Reorder rewrites positions 0..n-1 for the given tasks within one category.
func (r *TaskRepository) Reorder(ctx context.Context, userID, categoryID string, orderedIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for pos, id := range orderedIDs {
			if err := tx.Model(&model.Task{}).
				Where("user_id = ? AND category_id = ? AND id = ?", userID, categoryID, id).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reorder tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
