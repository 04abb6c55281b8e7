package model

import "time"

// User stores profile metadata for a signed-in account. Rows are upserted on
// first sign-in; credentials live with the external identity provider, never
// here.
type User struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex" json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
