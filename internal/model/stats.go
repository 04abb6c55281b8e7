package model

// DailyStats summarizes completion across all of a user's tasks. Derived
// from the current task set, never stored directly; AnalyticsHistory keeps
// the per-day snapshots.
type DailyStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Missed     int `json:"missed"`
	Percentage int `json:"percentage"`
}

// CategoryStats is the per-category analogue of DailyStats.
type CategoryStats struct {
	CategoryID    string `json:"category_id"`
	CategoryTitle string `json:"category_title"`
	Total         int    `json:"total"`
	Completed     int    `json:"completed"`
	Percentage    int    `json:"percentage"`
}
