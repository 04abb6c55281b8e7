package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskpad/internal/model"
)

// HistoryRepository stores the per-day analytics snapshots.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert writes the snapshot for (user, date). An existing row for that day
// is overwritten in place, never duplicated.
func (r *HistoryRepository) Upsert(ctx context.Context, entry *model.AnalyticsHistory) error {
	db := r.db.WithContext(ctx)

	var existing model.AnalyticsHistory
	err := db.Where("user_id = ? AND date = ?", entry.UserID, entry.Date).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"total_tasks":     entry.TotalTasks,
			"completed_tasks": entry.CompletedTasks,
			"percentage":      entry.Percentage,
			"breakdown":       entry.Breakdown,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update history entry: %w", err)
		}
		entry.ID = existing.ID
		return nil
	case err == gorm.ErrRecordNotFound:
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if err := db.Create(entry).Error; err != nil {
			return fmt.Errorf("create history entry: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find history entry: %w", err)
	}
}

// ListByUser returns snapshots newest-first.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.AnalyticsHistory, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var entries []model.AnalyticsHistory
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
