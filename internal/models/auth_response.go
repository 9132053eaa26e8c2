package models

import (
	"time"

	"lastleaf-be/internal/entities"
)

// UserResponse is the public projection of a user; it never carries the password hash.
type UserResponse struct {
	ID                    string    `json:"id"` // UUID
	Email                 string    `json:"email"`
	Nickname              string    `json:"nickname"`
	Name                  *string   `json:"name"`
	TimerStatus           string    `json:"timer_status"`
	TimerIdleThresholdSec int64     `json:"timer_idle_threshold_sec"`
	HasPassword           bool      `json:"has_password"`
	CreatedAt             time.Time `json:"created_at"`
	LastActiveAt          time.Time `json:"last_active_at"`
}

func NewUserResponse(u *entities.User) UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		Nickname:              u.Nickname,
		Name:                  u.Name,
		TimerStatus:           string(u.TimerStatus),
		TimerIdleThresholdSec: u.TimerIdleThresholdSec,
		HasPassword:           u.PasswordHash != nil,
		CreatedAt:             u.CreatedAt,
		LastActiveAt:          u.LastActiveAt,
	}
}

// UserEnvelope wraps a user for auth and profile responses
type UserEnvelope struct {
	User UserResponse `json:"user"`
}
