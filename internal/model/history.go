package model

import (
	"time"

	"gorm.io/datatypes"
)

// AnalyticsHistory is one snapshot of a user's completion figures per local
// calendar day. The (user_id, date) pair is unique: recording again for the
// same day overwrites the row instead of inserting a second one.
type AnalyticsHistory struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	UserID         string         `gorm:"index:idx_user_history_date,unique" json:"user_id"`
	Date           string         `gorm:"index:idx_user_history_date,unique" json:"date"` // YYYY-MM-DD, local calendar date
	TotalTasks     int            `json:"total_tasks"`
	CompletedTasks int            `json:"completed_tasks"`
	Percentage     int            `json:"percentage"`
	Breakdown      datatypes.JSON `json:"breakdown"`
	CreatedAt      time.Time      `json:"created_at"`
}
