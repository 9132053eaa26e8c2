package inactivity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lastleaf-be/internal/entities"
)

// Alert tells one emergency contact that a user went quiet.
type Alert struct {
	Type             string    `json:"type"`
	UserID           string    `json:"user_id"`
	UserNickname     string    `json:"user_nickname"`
	ContactID        string    `json:"contact_id"`
	ContactEmail     *string   `json:"contact_email,omitempty"`
	ContactPhone     *string   `json:"contact_phone,omitempty"`
	LastActiveAt     time.Time `json:"last_active_at"`
	IdleThresholdSec int64     `json:"idle_threshold_sec"`
	IdleDeadline     time.Time `json:"idle_deadline"`
	DetectedAt       time.Time `json:"detected_at"`
}

const alertType = "inactivity_alert"

func newAlerts(user *entities.User, contacts []*entities.Contact, now time.Time) []Alert {
	alerts := make([]Alert, 0, len(contacts))
	for _, c := range contacts {
		alerts = append(alerts, Alert{
			Type:             alertType,
			UserID:           user.ID,
			UserNickname:     user.Nickname,
			ContactID:        c.ID,
			ContactEmail:     c.Email,
			ContactPhone:     c.Phone,
			LastActiveAt:     user.LastActiveAt,
			IdleThresholdSec: user.TimerIdleThresholdSec,
			IdleDeadline:     user.IdleDeadline(),
			DetectedAt:       now,
		})
	}
	return alerts
}

// Notifier delivers alerts. Delivery for a user is all or nothing from the
// sweeper's point of view: an error means the user is retried next sweep.
type Notifier interface {
	Notify(ctx context.Context, alerts []Alert) error
}

// LogNotifier only records alerts in the log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, alerts []Alert) error {
	for _, a := range alerts {
		n.log.Info("inactivity alert",
			zap.String("user_id", a.UserID),
			zap.String("contact_id", a.ContactID),
			zap.Time("last_active_at", a.LastActiveAt),
			zap.Time("idle_deadline", a.IdleDeadline),
		)
	}
	return nil
}
