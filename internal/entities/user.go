package entities

import "time"

// TimerStatus is the state of a user's inactivity timer.
type TimerStatus string

const (
	TimerActive   TimerStatus = "active"
	TimerInactive TimerStatus = "inactive"
	TimerPaused   TimerStatus = "paused"
)

func (s TimerStatus) Valid() bool {
	switch s {
	case TimerActive, TimerInactive, TimerPaused:
		return true
	}
	return false
}

// Allowed idle thresholds: 30, 60, 90 and 180 days.
const (
	Threshold30Days  int64 = 30 * 24 * 60 * 60
	Threshold60Days  int64 = 60 * 24 * 60 * 60
	Threshold90Days  int64 = 90 * 24 * 60 * 60
	Threshold180Days int64 = 180 * 24 * 60 * 60

	DefaultIdleThresholdSec = Threshold30Days
)

func ValidIdleThreshold(sec int64) bool {
	switch sec {
	case Threshold30Days, Threshold60Days, Threshold90Days, Threshold180Days:
		return true
	}
	return false
}

// User represents a user entity in the database
type User struct {
	ID                    string      `json:"id"` // UUID
	Email                 string      `json:"email"`
	PasswordHash          *string     `json:"-"` // nil for accounts created through OAuth
	Nickname              string      `json:"nickname"`
	Name                  *string     `json:"name,omitempty"`
	TimerStatus           TimerStatus `json:"timer_status"`
	TimerIdleThresholdSec int64       `json:"timer_idle_threshold_sec"`
	CreatedAt             time.Time   `json:"created_at"`
	LastActiveAt          time.Time   `json:"last_active_at"`
	InactivityNotifiedAt  *time.Time  `json:"-"`
}

// IdleDeadline is the moment after which the user counts as inactive.
func (u *User) IdleDeadline() time.Time {
	return u.LastActiveAt.Add(time.Duration(u.TimerIdleThresholdSec) * time.Second)
}
