package service

import (
	"math"

	"taskpad/internal/model"
)

// ComputeDailyStats derives whole-day completion figures from the current
// task set. Pure; no I/O.
func ComputeDailyStats(tasks []model.Task) model.DailyStats {
	stats := model.DailyStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			stats.Completed++
		}
	}
	stats.Missed = stats.Total - stats.Completed
	stats.Percentage = percentage(stats.Completed, stats.Total)
	return stats
}

// ComputeCategoryStats returns one entry per category, in category order,
// including categories with zero tasks (percentage 0, never a division
// fault).
func ComputeCategoryStats(categories []model.Category, tasks []model.Task) []model.CategoryStats {
	byCategory := make(map[string]*model.CategoryStats, len(categories))
	out := make([]model.CategoryStats, len(categories))
	for i, c := range categories {
		out[i] = model.CategoryStats{CategoryID: c.ID, CategoryTitle: c.Title}
		byCategory[c.ID] = &out[i]
	}

	for _, t := range tasks {
		entry, ok := byCategory[t.CategoryID]
		if !ok {
			continue
		}
		entry.Total++
		if t.IsCompleted {
			entry.Completed++
		}
	}

	for i := range out {
		out[i].Percentage = percentage(out[i].Completed, out[i].Total)
	}
	return out
}

// percentage rounds half-up: 2 of 3 is 67, not 66.
func percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
