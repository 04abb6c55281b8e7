package model

import "time"

// Task is a single item on the board. A daily task reverts to incomplete
// once its last completion falls on a prior calendar day.
//
// LastCompletedAt is retained when a task is un-completed: it records the
// last time the task was observed done, which the rollover check uses to
// decide staleness.
type Task struct {
	ID              string     `gorm:"primaryKey" json:"id"`
	UserID          string     `gorm:"index" json:"user_id"`
	CategoryID      string     `gorm:"index" json:"category_id"`
	Title           string     `json:"title"`
	IsCompleted     bool       `gorm:"default:false" json:"is_completed"`
	IsDaily         bool       `gorm:"default:false" json:"is_daily"`
	Position        int        `json:"position"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
