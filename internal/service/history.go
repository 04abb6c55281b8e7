package service

import (
	"context"
	"encoding/json"
	"log"

	"gorm.io/datatypes"

	"taskpad/internal/model"
	"taskpad/internal/repository"
)

// HistoryService persists one analytics snapshot per (user, local calendar
// date). Recording is a best-effort side effect of task mutations: failures
// are logged and swallowed, never propagated into the mutation that
// triggered them.
type HistoryService struct {
	repo *repository.HistoryRepository
}

func NewHistoryService(repo *repository.HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// Record upserts the snapshot for (userID, date). date is the session-local
// YYYY-MM-DD string.
func (s *HistoryService) Record(ctx context.Context, userID, date string, daily model.DailyStats, categories []model.CategoryStats) {
	breakdown, err := json.Marshal(categories)
	if err != nil {
		log.Printf("history snapshot for %s on %s: encode breakdown: %v", userID, date, err)
		return
	}

	entry := &model.AnalyticsHistory{
		UserID:         userID,
		Date:           date,
		TotalTasks:     daily.Total,
		CompletedTasks: daily.Completed,
		Percentage:     daily.Percentage,
		Breakdown:      datatypes.JSON(breakdown),
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		log.Printf("history snapshot for %s on %s: %v", userID, date, err)
	}
}

// List returns snapshots newest-first, for trend charts.
func (s *HistoryService) List(ctx context.Context, userID string, limit int) ([]model.AnalyticsHistory, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}
