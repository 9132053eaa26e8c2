package models

// ProfileRequest updates profile fields. Omitted fields are left unchanged.
// Email is accepted only so a changed value can be rejected.
type ProfileRequest struct {
	Nickname *string `json:"nickname"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
}

// PreferencesRequest updates the inactivity timer. At least one field is required.
type PreferencesRequest struct {
	TimerStatus           *string `json:"timer_status"`
	TimerIdleThresholdSec *int64  `json:"timer_idle_threshold_sec"`
}

type ContactRequest struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// ContactsRequest replaces the full contact list; an empty list clears it.
type ContactsRequest struct {
	Contacts []ContactRequest `json:"contacts" binding:"required"`
}
