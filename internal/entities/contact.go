package entities

import "time"

// Contact is an emergency contact alerted when its owner goes inactive.
type Contact struct {
	ID        string    `json:"id"` // UUID
	UserID    string    `json:"user_id"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Position  int       `json:"-"` // order within the saved list
	CreatedAt time.Time `json:"created_at"`
}
