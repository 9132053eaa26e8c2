package entities

import "time"

// Diary is a single diary entry owned by a user.
type Diary struct {
	ID        string    `json:"id"` // UUID
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
