package model

import "time"

// Category groups a user's tasks. Position is the stable sort key among one
// user's categories; reordering rewrites positions 0..n-1.
type Category struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"user_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	Tasks     []Task    `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}
