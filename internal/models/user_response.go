package models

import "lastleaf-be/internal/entities"

type PreferencesResponse struct {
	TimerStatus           string `json:"timer_status"`
	TimerIdleThresholdSec int64  `json:"timer_idle_threshold_sec"`
}

func NewPreferencesResponse(u *entities.User) PreferencesResponse {
	return PreferencesResponse{
		TimerStatus:           string(u.TimerStatus),
		TimerIdleThresholdSec: u.TimerIdleThresholdSec,
	}
}

type ContactResponse struct {
	ID    string  `json:"id"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type ContactsResponse struct {
	Contacts []ContactResponse `json:"contacts"`
}

func NewContactsResponse(contacts []*entities.Contact) ContactsResponse {
	out := make([]ContactResponse, len(contacts))
	for i, c := range contacts {
		out[i] = ContactResponse{ID: c.ID, Email: c.Email, Phone: c.Phone}
	}
	return ContactsResponse{Contacts: out}
}
